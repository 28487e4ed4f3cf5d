package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

const welcomeMessage = "Welcome to Mental Health API!"

// PingFunc checks one backing service.
type PingFunc func(ctx context.Context) error

// HealthHandler serves the welcome text, liveness and readiness.
type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler takes the readiness checks keyed by service name. Optional
// services that are not configured are simply left out.
func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

func (h *HealthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(welcomeMessage))
}

// Health reports that the process is up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// Ready pings every configured backing service and answers 503 if any fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Services:  make(map[string]string, len(names)),
	}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Services[name] = "unhealthy"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "healthy"
	}
	utils.RespondWithJSON(w, status, resp)
}
