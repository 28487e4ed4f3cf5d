package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/internal/services"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setup      func(m *MockUserManager)
		wantStatus int
		wantError  bool
		wantMsg    string
	}{
		{
			name: "success",
			body: RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "supersecret"},
			setup: func(m *MockUserManager) {
				m.On("Register", mock.Anything, "Ann", "ann@example.com", "supersecret").Return("uid-1", nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "User registered successfully",
		},
		{
			name: "email taken",
			body: RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "supersecret"},
			setup: func(m *MockUserManager) {
				m.On("Register", mock.Anything, "Ann", "ann@example.com", "supersecret").Return("", services.ErrEmailTaken)
			},
			wantStatus: http.StatusConflict,
			wantError:  true,
			wantMsg:    "Email is already registered",
		},
		{
			name: "short password",
			body: RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "short"},
			setup: func(m *MockUserManager) {
				m.On("Register", mock.Anything, "Ann", "ann@example.com", "short").Return("", services.ErrPasswordTooShort)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  true,
			wantMsg:    "Password must be at least 8 characters",
		},
		{
			name: "provider failure keeps the raw message",
			body: RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "supersecret"},
			setup: func(m *MockUserManager) {
				m.On("Register", mock.Anything, "Ann", "ann@example.com", "supersecret").Return("", errors.New("quota exceeded"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  true,
			wantMsg:    "quota exceeded",
		},
		{
			name:       "malformed body",
			body:       "{not json",
			setup:      func(m *MockUserManager) {},
			wantStatus: http.StatusBadRequest,
			wantError:  true,
			wantMsg:    "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserManager)
			tt.setup(users)
			h := NewAuthHandler(users, logger.Nop())

			rec := serve(t, http.MethodPost, "/api/auth/register", h.Register, "/api/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
			if !tt.wantError {
				assert.Equal(t, "uid-1", body["userId"])
			} else {
				assert.NotContains(t, body, "userId")
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("Login", mock.Anything, "ann@example.com", "supersecret").Return(&models.LoginResult{
			UserID:          "uid-1",
			Name:            "Ann",
			Email:           "ann@example.com",
			Token:           "custom-token",
			TokenExpiration: "2026-10-16T11:00:00Z",
		}, nil)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodPost, "/api/auth/login", h.Login, "/api/auth/login",
			LoginRequest{Email: "ann@example.com", Password: "supersecret"})

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["error"])
		assert.Equal(t, "Login successful", body["message"])
		result := body["loginResult"].(map[string]interface{})
		assert.Equal(t, "uid-1", result["userId"])
		assert.Equal(t, "custom-token", result["token"])
		assert.Equal(t, "2026-10-16T11:00:00Z", result["tokenExpiration"])
	})

	t.Run("missing profile is a bad request", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("Login", mock.Anything, "ann@example.com", "x").Return(nil, services.ErrUserDataNotFound)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodPost, "/api/auth/login", h.Login, "/api/auth/login",
			LoginRequest{Email: "ann@example.com", Password: "x"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User data not found", decodeBody(t, rec)["error"])
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("Login", mock.Anything, "ghost@example.com", "x").
			Return(nil, fmt.Errorf("lookup user: %w", services.ErrIdentityNotFound))
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodPost, "/api/auth/login", h.Login, "/api/auth/login",
			LoginRequest{Email: "ghost@example.com", Password: "x"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "lookup user: user not found", decodeBody(t, rec)["error"])
	})
}

func TestAuthHandler_DeleteUser(t *testing.T) {
	users := new(MockUserManager)
	users.On("DeleteUser", mock.Anything, "uid-1").Return(nil)
	h := NewAuthHandler(users, logger.Nop())

	rec := serve(t, http.MethodDelete, "/api/auth/deleteUser/{uid}", h.DeleteUser, "/api/auth/deleteUser/uid-1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", decodeBody(t, rec)["message"])
	users.AssertExpectations(t)
}

func TestAuthHandler_UpdateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("UpdateUser", mock.Anything, "uid-1", "Ann B", "annb@example.com").Return(nil)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodPut, "/api/auth/updateUser/{uid}", h.UpdateUser, "/api/auth/updateUser/uid-1",
			UpdateUserRequest{Name: "Ann B", Email: "annb@example.com"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "User updated successfully", decodeBody(t, rec)["message"])
	})

	t.Run("invalid email", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("UpdateUser", mock.Anything, "uid-1", "Ann", "nope").Return(services.ErrInvalidEmail)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodPut, "/api/auth/updateUser/{uid}", h.UpdateUser, "/api/auth/updateUser/uid-1",
			UpdateUserRequest{Name: "Ann", Email: "nope"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email format", decodeBody(t, rec)["error"])
	})
}

func TestAuthHandler_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.UserProfile{
			Name: "Ann", Email: "ann@example.com", UserID: "uid-1",
		}, nil)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/user/{uid}", h.GetUser, "/api/auth/user/uid-1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		user := decodeBody(t, rec)["user"].(map[string]interface{})
		assert.Equal(t, "Ann", user["name"])
		assert.Equal(t, "uid-1", user["userId"])
	})

	t.Run("missing profile", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("GetUser", mock.Anything, "uid-2").Return(nil, services.ErrUserDataNotFound)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/user/{uid}", h.GetUser, "/api/auth/user/uid-2", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User data not found", decodeBody(t, rec)["error"])
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(new(MockUserManager), logger.Nop())

	rec := serve(t, http.MethodPost, "/api/auth/logout", h.Logout, "/api/auth/logout", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "User logged out successfully", body["message"])
}

func TestAuthHandler_LoginHistory(t *testing.T) {
	owner := &services.IdentityToken{UID: "uid-1"}

	t.Run("lists logins", func(t *testing.T) {
		at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
		users := new(MockUserManager)
		users.On("LoginHistory", mock.Anything, "uid-1", 5).Return([]time.Time{at}, nil)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", as(owner, h.LoginHistory), "/api/auth/loginHistory/uid-1?limit=5", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "uid-1", body["userId"])
		assert.Equal(t, []interface{}{"2026-10-16T09:00:00Z"}, body["logins"])
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		users := new(MockUserManager)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", as(owner, h.LoginHistory), "/api/auth/loginHistory/victim", nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, services.ErrNotOwner.Error(), decodeBody(t, rec)["error"])
		users.AssertNotCalled(t, "LoginHistory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin may read any user", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("LoginHistory", mock.Anything, "victim", 0).Return(nil, nil)
		h := NewAuthHandler(users, logger.Nop())
		admin := &services.IdentityToken{UID: "a1", Claims: map[string]interface{}{"role": "admin"}}

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", as(admin, h.LoginHistory), "/api/auth/loginHistory/victim", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{}, decodeBody(t, rec)["logins"])
	})

	t.Run("no identity is forbidden", func(t *testing.T) {
		users := new(MockUserManager)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", h.LoginHistory, "/api/auth/loginHistory/uid-1", nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		users.AssertNotCalled(t, "LoginHistory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("disabled", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("LoginHistory", mock.Anything, "uid-1", 0).Return(nil, services.ErrLoginHistoryDisabled)
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", as(owner, h.LoginHistory), "/api/auth/loginHistory/uid-1", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Login history is not enabled", decodeBody(t, rec)["error"])
	})

	t.Run("database failure is hidden", func(t *testing.T) {
		users := new(MockUserManager)
		users.On("LoginHistory", mock.Anything, "uid-1", 0).Return(nil, errors.New("pq: connection refused"))
		h := NewAuthHandler(users, logger.Nop())

		rec := serve(t, http.MethodGet, "/api/auth/loginHistory/{uid}", as(owner, h.LoginHistory), "/api/auth/loginHistory/uid-1", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal Server Error", decodeBody(t, rec)["error"])
	})
}
