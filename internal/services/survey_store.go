package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

const surveyQuestionsKey = "survey_questions.json"

func surveyResponseKey(userID string) string {
	return "survey_responses/" + userID + "_survey_response.json"
}

// SurveyService keeps one global question set and one latest response per user.
type SurveyService struct {
	blobs BlobStore
	cache *Cache // may be nil
	log   *logger.Logger
	now   func() time.Time
}

var surveyQuestionsCacheKey = CacheKey("survey", "questions")

func NewSurveyService(blobs BlobStore, log *logger.Logger) *SurveyService {
	return &SurveyService{
		blobs: blobs,
		log:   log.With("service", "SurveyService"),
		now:   time.Now,
	}
}

// WithCache serves question reads from c. CreateSurvey invalidates it.
func (s *SurveyService) WithCache(c *Cache) *SurveyService {
	s.cache = c
	return s
}

// GetQuestions returns the stored question set exactly as it was created.
func (s *SurveyService) GetQuestions(ctx context.Context) (json.RawMessage, error) {
	var questions json.RawMessage
	if hit, err := s.cache.Get(ctx, surveyQuestionsCacheKey, &questions); err != nil {
		s.log.Warn("Survey cache read failed", "error", err)
	} else if hit {
		return questions, nil
	}

	if err := GetJSON(ctx, s.blobs, surveyQuestionsKey, &questions); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrSurveyQuestionsNotFound
		}
		return nil, err
	}
	if err := s.cache.Set(ctx, surveyQuestionsCacheKey, questions); err != nil {
		s.log.Warn("Survey cache write failed", "error", err)
	}
	return questions, nil
}

// CreateSurvey replaces the question set.
func (s *SurveyService) CreateSurvey(ctx context.Context, questions json.RawMessage) error {
	if isEmptyJSON(questions) {
		return ErrSurveyQuestionsMissing
	}
	if err := PutJSON(ctx, s.blobs, surveyQuestionsKey, questions); err != nil {
		return fmt.Errorf("failed to save survey questions: %w", err)
	}
	if err := s.cache.Delete(ctx, surveyQuestionsCacheKey); err != nil {
		s.log.Warn("Survey cache invalidation failed", "error", err)
	}
	s.log.Info("Survey questions replaced", "bytes", len(questions))
	return nil
}

// SubmitAnswers replaces the user's previous response.
func (s *SurveyService) SubmitAnswers(ctx context.Context, userID string, answers json.RawMessage) error {
	if !validBlobSegment(userID) || isEmptyJSON(answers) {
		return ErrSurveyAnswersMissing
	}
	response := models.SurveyResponse{
		UserID:    userID,
		Answers:   answers,
		Timestamp: s.now().UTC(),
	}
	if err := PutJSON(ctx, s.blobs, surveyResponseKey(userID), response); err != nil {
		return fmt.Errorf("failed to save survey response: %w", err)
	}
	return nil
}

// GetResults returns the user's response as a one-element list.
func (s *SurveyService) GetResults(ctx context.Context, userID string) ([]models.SurveyResponse, error) {
	if !validBlobSegment(userID) {
		return nil, ErrSurveyResultsNotFound
	}
	var response models.SurveyResponse
	if err := GetJSON(ctx, s.blobs, surveyResponseKey(userID), &response); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrSurveyResultsNotFound
		}
		return nil, err
	}
	return []models.SurveyResponse{response}, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// validBlobSegment reports whether s can be embedded in an object key without
// escaping its prefix.
func validBlobSegment(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.Contains(s, "..") && !strings.ContainsAny(s, `/\`)
}
