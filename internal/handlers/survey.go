package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

// SurveyManager is implemented by services.SurveyService.
type SurveyManager interface {
	GetQuestions(ctx context.Context) (json.RawMessage, error)
	CreateSurvey(ctx context.Context, questions json.RawMessage) error
	SubmitAnswers(ctx context.Context, userID string, answers json.RawMessage) error
	GetResults(ctx context.Context, userID string) ([]models.SurveyResponse, error)
}

type SurveyHandler struct {
	survey SurveyManager
	log    *logger.Logger
}

func NewSurveyHandler(survey SurveyManager, log *logger.Logger) *SurveyHandler {
	return &SurveyHandler{survey: survey, log: log.With("handler", "survey")}
}

type QuestionsPayload struct {
	Questions json.RawMessage `json:"questions"`
}

type SubmitSurveyRequest struct {
	UserID  string          `json:"userId"`
	Answers json.RawMessage `json:"answers"`
}

type SurveyResultsResponse struct {
	Results []models.SurveyResponse `json:"results"`
}

func (h *SurveyHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.survey.GetQuestions(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, QuestionsPayload{Questions: questions})
}

// Create replaces the global question set. Routed behind the admin gate.
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req QuestionsPayload
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.survey.CreateSurvey(r.Context(), req.Questions); err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Survey created successfully")
}

func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitSurveyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.survey.SubmitAnswers(r.Context(), req.UserID, req.Answers); err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Survey submitted successfully")
}

func (h *SurveyHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.survey.GetResults(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, SurveyResultsResponse{Results: results})
}
