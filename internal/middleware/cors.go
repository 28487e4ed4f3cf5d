package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured origins. A "*" entry allows any origin; credentials
// are only offered when every origin is listed explicitly.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
