package utils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request id stored by the request logger, or "".
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ErrorResponse is the body every failed request gets.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is the body of operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithJSON writes data as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondWithError writes {"error": message}.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithMessage writes {"message": message}.
func RespondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, MessageResponse{Message: message})
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
