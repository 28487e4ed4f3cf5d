package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/mindcare-backend/internal/services"
	"github.com/AnshRaj112/mindcare-backend/pkg/apierr"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

type contextKey string

const identityTokenKey contextKey = "identity_token"

// IdentityFromContext returns the verified token RequireToken stored, if any.
func IdentityFromContext(ctx context.Context) (*services.IdentityToken, bool) {
	tok, ok := ctx.Value(identityTokenKey).(*services.IdentityToken)
	return tok, ok && tok != nil
}

// WithIdentity stores a verified token on ctx.
func WithIdentity(ctx context.Context, tok *services.IdentityToken) context.Context {
	return context.WithValue(ctx, identityTokenKey, tok)
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireToken rejects requests without a valid bearer ID token with 401.
func RequireToken(verifier services.TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				respondGateError(w, services.ErrNoToken)
				return
			}
			tok, err := verifier.VerifyIDToken(r.Context(), raw)
			if err != nil {
				log.Warn("Invalid ID token",
					"request_id", utils.GetRequestID(r.Context()),
					"path", r.URL.Path,
					"error", err)
				utils.RespondWithJSON(w, apierr.StatusOf(services.ErrInvalidToken, http.StatusUnauthorized), utils.ErrorResponse{
					Error:   "Unauthorized",
					Message: services.ErrInvalidToken.Error(),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), tok)))
		})
	}
}

// RequireAdmin is RequireToken plus a role == "admin" claim check, failing with 403.
func RequireAdmin(verifier services.TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	requireToken := RequireToken(verifier, log)
	return func(next http.Handler) http.Handler {
		return requireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, _ := IdentityFromContext(r.Context())
			if !tok.IsAdmin() {
				log.Warn("Non-admin rejected", "user_id", tok.UID, "path", r.URL.Path)
				respondGateError(w, services.ErrAdminOnly)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func respondGateError(w http.ResponseWriter, err error) {
	utils.RespondWithError(w, apierr.StatusOf(err, http.StatusUnauthorized), err.Error())
}
