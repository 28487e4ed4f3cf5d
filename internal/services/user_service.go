package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

const (
	minPasswordLength = 8
	// Custom tokens issued by the provider are valid for one hour.
	customTokenExpiration = "1h"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func userProfileKey(uid string) string { return "users/" + uid + ".json" }
func loginLogKey(uid string) string    { return "users/" + uid + "_login_logs.json" }

// LoginAudit keeps an append-only history of logins.
type LoginAudit interface {
	RecordLogin(ctx context.Context, uid string, at time.Time) error
	RecentLogins(ctx context.Context, uid string, limit int) ([]time.Time, error)
}

// UserService registers and manages accounts in the identity provider and keeps a
// profile document per user in blob storage.
type UserService struct {
	identity IdentityProvider
	blobs    BlobStore
	audit    LoginAudit // may be nil
	log      *logger.Logger
	now      func() time.Time
}

func NewUserService(identity IdentityProvider, blobs BlobStore, audit LoginAudit, log *logger.Logger) *UserService {
	return &UserService{
		identity: identity,
		blobs:    blobs,
		audit:    audit,
		log:      log.With("service", "UserService"),
		now:      time.Now,
	}
}

// ValidateRegistration checks the registration fields without calling the provider.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingFields
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	// Length counts characters, not bytes.
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Register creates the provider account and its profile, returning the new user id.
// A failed profile write removes the account again.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	if err := ValidateRegistration(name, email, password); err != nil {
		return "", err
	}

	existing, err := s.identity.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrIdentityNotFound) {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	user, err := s.identity.CreateUser(ctx, name, email, password)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	profile := models.UserProfile{Name: name, Email: email, UserID: user.UID}
	if err := PutJSON(ctx, s.blobs, userProfileKey(user.UID), profile); err != nil {
		if delErr := s.identity.DeleteUser(ctx, user.UID); delErr != nil {
			s.log.Error("Failed to roll back account after profile write error",
				"user_id", user.UID, "error", delErr)
		}
		return "", fmt.Errorf("failed to save user profile: %w", err)
	}

	s.log.Info("User registered", "user_id", user.UID)
	return user.UID, nil
}

// Login resolves the account by email and issues a custom token. The password is
// not checked here; clients exchange the custom token with the provider.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrMissingFields
	}

	user, err := s.identity.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := s.identity.CustomToken(ctx, user.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	var profile models.UserProfile
	if err := GetJSON(ctx, s.blobs, userProfileKey(user.UID), &profile); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrUserDataNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	entry := models.LoginLogEntry{UserID: user.UID, LoginTime: now}
	if err := PutJSON(ctx, s.blobs, loginLogKey(user.UID), entry); err != nil {
		return nil, fmt.Errorf("failed to save login log: %w", err)
	}
	if s.audit != nil {
		if err := s.audit.RecordLogin(ctx, user.UID, now); err != nil {
			s.log.Warn("Failed to record login audit event", "user_id", user.UID, "error", err)
		}
	}

	return &models.LoginResult{
		UserID:          user.UID,
		Name:            profile.Name,
		Email:           profile.Email,
		Token:           token,
		TokenExpiration: customTokenExpiration,
	}, nil
}

// DeleteUser removes the profile and then the provider account. If the account
// cannot be deleted the profile is written back.
func (s *UserService) DeleteUser(ctx context.Context, uid string) error {
	var snapshot *models.UserProfile
	var profile models.UserProfile
	switch err := GetJSON(ctx, s.blobs, userProfileKey(uid), &profile); {
	case err == nil:
		snapshot = &profile
	case errors.Is(err, ErrObjectNotFound):
		s.log.Warn("Deleting user without a stored profile", "user_id", uid)
	default:
		return err
	}

	if snapshot != nil {
		if err := s.blobs.Delete(ctx, userProfileKey(uid)); err != nil && !errors.Is(err, ErrObjectNotFound) {
			return fmt.Errorf("failed to delete user profile: %w", err)
		}
	}

	if err := s.identity.DeleteUser(ctx, uid); err != nil {
		if snapshot != nil {
			if restoreErr := PutJSON(ctx, s.blobs, userProfileKey(uid), snapshot); restoreErr != nil {
				s.log.Error("Failed to restore profile after account delete error",
					"user_id", uid, "error", restoreErr)
			}
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("User deleted", "user_id", uid)
	return nil
}

// UpdateUser changes the provider account and replaces the stored profile with
// exactly the supplied fields.
func (s *UserService) UpdateUser(ctx context.Context, uid, name, email string) error {
	if email != "" && !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	if err := s.identity.UpdateUser(ctx, uid, name, email); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	profile := models.UserProfile{Name: name, Email: email, UserID: uid}
	if err := PutJSON(ctx, s.blobs, userProfileKey(uid), profile); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := GetJSON(ctx, s.blobs, userProfileKey(uid), &profile); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrUserDataNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// LoginHistory returns the most recent logins recorded for uid, newest first.
func (s *UserService) LoginHistory(ctx context.Context, uid string, limit int) ([]time.Time, error) {
	if s.audit == nil {
		return nil, ErrLoginHistoryDisabled
	}
	return s.audit.RecentLogins(ctx, uid, limit)
}
