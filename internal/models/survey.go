package models

import (
	"encoding/json"
	"time"
)

// SurveyResponse is one user's latest submission; resubmitting replaces it.
type SurveyResponse struct {
	UserID    string          `json:"userId"`
	Answers   json.RawMessage `json:"answers"`
	Timestamp time.Time       `json:"timestamp"`
}
