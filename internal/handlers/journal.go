package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

// JournalManager is implemented by services.JournalService.
type JournalManager interface {
	Create(ctx context.Context, userID, title, content string) (*models.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Get(ctx context.Context, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, id, title, content string) (*models.Sentiment, error)
	Delete(ctx context.Context, id string) error
	AnalyzeMood(ctx context.Context, content string) (*models.Sentiment, error)
}

type JournalHandler struct {
	journal JournalManager
	log     *logger.Logger
}

func NewJournalHandler(journal JournalManager, log *logger.Logger) *JournalHandler {
	return &JournalHandler{journal: journal, log: log.With("handler", "journal")}
}

type CreateJournalRequest struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AnalyzeMoodRequest struct {
	Content string `json:"content"`
}

// CreateJournalResponse is the stored entry followed by a message.
type CreateJournalResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Sentiment *models.Sentiment `json:"sentiment"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Message   string            `json:"message"`
}

type JournalListResponse struct {
	Entries []models.JournalEntry `json:"entries"`
}

type UpdateJournalResponse struct {
	Message   string            `json:"message"`
	Sentiment *models.Sentiment `json:"sentiment,omitempty"`
}

type SentimentResponse struct {
	Sentiment *models.Sentiment `json:"sentiment"`
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateJournalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journal.Create(r.Context(), req.UserID, req.Title, req.Content)
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, CreateJournalResponse{
		ID:        entry.ID.Hex(),
		UserID:    entry.UserID,
		Title:     entry.Title,
		Content:   entry.Content,
		Sentiment: entry.Sentiment,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
		Message:   "Journal entry created successfully",
	})
}

func (h *JournalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journal.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, JournalListResponse{Entries: entries})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journal.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entry)
}

// Update reports only the recomputed sentiment, which is absent for title-only edits.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateJournalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sentiment, err := h.journal.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, UpdateJournalResponse{
		Message:   "Journal entry updated successfully",
		Sentiment: sentiment,
	})
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Journal entry deleted successfully")
}

func (h *JournalHandler) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeMoodRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sentiment, err := h.journal.AnalyzeMood(r.Context(), req.Content)
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, SentimentResponse{Sentiment: sentiment})
}
