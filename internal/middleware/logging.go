package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id (reusing an incoming X-Request-ID), echoes it
// in the response and logs one line per completed request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			r = r.WithContext(utils.WithRequestID(r.Context(), requestID))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(requestIDHeader, requestID)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []interface{}{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.Error("Request completed", fields...)
			} else {
				log.Info("Request completed", fields...)
			}
		})
	}
}

// Recoverer turns a panic into a generic 500 and logs it with the stack.
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Panic recovered",
						"request_id", utils.GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"error", rec,
						"stack", string(debug.Stack()),
					)
					utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Base returns the middlewares every route runs through: RequestLogger → Recoverer → CORS.
// RequestLogger sits outermost so a recovered panic carries the request id and
// still gets its completion line.
func Base(log *logger.Logger, allowedOrigins []string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestLogger(log),
		Recoverer(log),
		CORS(allowedOrigins),
	}
}

// NotFound answers unmatched routes with a JSON body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers known paths hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
