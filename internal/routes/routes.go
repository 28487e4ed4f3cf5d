package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindcare-backend/internal/handlers"
	"github.com/AnshRaj112/mindcare-backend/internal/middleware"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Survey    *handlers.SurveyHandler
	DrugStore *handlers.DrugStoreHandler
	Journal   *handlers.JournalHandler

	// RequireToken and RequireAdmin gate the survey routes.
	RequireToken func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
}

func SetupRoutes(r chi.Router, h Handlers) {
	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	r.Get("/", h.Health.Welcome)
	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)

	// Auth routes
	r.Post("/api/auth/register", h.Auth.Register)
	r.Post("/api/auth/login", h.Auth.Login)
	r.Delete("/api/auth/deleteUser/{uid}", h.Auth.DeleteUser)
	r.Put("/api/auth/updateUser/{uid}", h.Auth.UpdateUser)
	r.Get("/api/auth/user/{uid}", h.Auth.GetUser)
	r.Post("/api/auth/logout", h.Auth.Logout)
	r.With(h.RequireToken).Get("/api/auth/loginHistory/{uid}", h.Auth.LoginHistory)

	// Survey routes: creating the survey is admin only, the rest need a signed-in user
	r.With(h.RequireToken).Get("/api/survey/questions", h.Survey.GetQuestions)
	r.With(h.RequireToken).Post("/api/survey/submit", h.Survey.Submit)
	r.With(h.RequireToken).Get("/api/survey/results/{userId}", h.Survey.Results)
	r.With(h.RequireAdmin).Post("/api/survey/create", h.Survey.Create)

	// Drug store routes
	r.Get("/api/drug-store/medicines/{category}", h.DrugStore.ByCategory)
	r.Get("/api/drug-store/medicines", h.DrugStore.All)

	// Journal routes
	r.Post("/api/journal", h.Journal.Create)
	r.Post("/api/journal/analyze", h.Journal.AnalyzeMood)
	r.Get("/api/journal/user/{userId}", h.Journal.ListByUser)
	r.Get("/api/journal/{id}", h.Journal.Get)
	r.Put("/api/journal/{id}", h.Journal.Update)
	r.Delete("/api/journal/{id}", h.Journal.Delete)
}
