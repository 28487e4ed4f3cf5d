package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindcare-backend/internal/middleware"
	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/internal/services"
	"github.com/AnshRaj112/mindcare-backend/pkg/apierr"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

// UserManager is the account side of the API, implemented by services.UserService.
type UserManager interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	DeleteUser(ctx context.Context, uid string) error
	UpdateUser(ctx context.Context, uid, name, email string) error
	GetUser(ctx context.Context, uid string) (*models.UserProfile, error)
	LoginHistory(ctx context.Context, uid string, limit int) ([]time.Time, error)
}

type AuthHandler struct {
	users UserManager
	log   *logger.Logger
}

func NewAuthHandler(users UserManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log.With("handler", "auth")}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Error       bool                `json:"error"`
	Message     string              `json:"message"`
	LoginResult *models.LoginResult `json:"loginResult"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	User *models.UserProfile `json:"user"`
}

type LoginHistoryResponse struct {
	UserID string      `json:"userId"`
	Logins []time.Time `json:"logins"`
}

// Register creates an account. Failures use the {error: true, message} shape.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, RegisterResponse{Error: true, Message: "Invalid request body"})
		return
	}

	uid, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.log.Warn("Registration failed", "email", req.Email, "error", err)
		utils.RespondWithJSON(w, apierr.StatusOf(err, http.StatusBadRequest), RegisterResponse{
			Error:   true,
			Message: clientMessage(err),
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, RegisterResponse{
		Error:   false,
		Message: "User registered successfully",
		UserID:  uid,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Login failed", "email", req.Email, "error", err)
		respondServiceError(w, r, h.log, err, http.StatusBadRequest)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Error:       false,
		Message:     "Login successful",
		LoginResult: result,
	})
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if err := h.users.DeleteUser(r.Context(), uid); err != nil {
		respondServiceError(w, r, h.log, err, http.StatusBadRequest)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "User deleted successfully")
}

// UpdateUser replaces the profile with exactly the supplied name and email.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	uid := chi.URLParam(r, "uid")
	if err := h.users.UpdateUser(r.Context(), uid, req.Name, req.Email); err != nil {
		respondServiceError(w, r, h.log, err, http.StatusBadRequest)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "User updated successfully")
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusBadRequest)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, UserResponse{User: profile})
}

// Logout always succeeds; tokens are not revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, RegisterResponse{
		Error:   false,
		Message: "User logged out successfully",
	})
}

// LoginHistory lists recent logins from the audit table. ?limit= caps the list.
// Callers see only their own history unless their token carries the admin role.
func (h *AuthHandler) LoginHistory(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	tok, ok := middleware.IdentityFromContext(r.Context())
	if !ok || (tok.UID != uid && !tok.IsAdmin()) {
		if ok {
			h.log.Warn("Login history of another user refused",
				"request_id", utils.GetRequestID(r.Context()),
				"user_id", tok.UID,
				"target_user_id", uid)
		}
		respondServiceError(w, r, h.log, services.ErrNotOwner, http.StatusForbidden)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logins, err := h.users.LoginHistory(r.Context(), uid, limit)
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	if logins == nil {
		logins = []time.Time{}
	}
	utils.RespondWithJSON(w, http.StatusOK, LoginHistoryResponse{UserID: uid, Logins: logins})
}
