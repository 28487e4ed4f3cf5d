package services

import (
	"errors"

	"github.com/AnshRaj112/mindcare-backend/pkg/apierr"
)

var (
	ErrMissingFields    = apierr.BadRequest("missing_fields", errors.New("Name, email and password are required"))
	ErrInvalidEmail     = apierr.BadRequest("invalid_email", errors.New("Invalid email format"))
	ErrPasswordTooShort = apierr.BadRequest("password_too_short", errors.New("Password must be at least 8 characters"))
	ErrEmailTaken       = apierr.Conflict("email_taken", errors.New("Email is already registered"))
	// Auth lookups report absence as a bad request, unlike the other route groups.
	ErrUserDataNotFound = apierr.BadRequest("user_data_not_found", errors.New("User data not found"))
	// ErrLoginHistoryDisabled is returned when no audit database is configured.
	ErrLoginHistoryDisabled = apierr.NotFound("login_history_disabled", errors.New("Login history is not enabled"))

	// Gate errors for the bearer-token middleware and owner-only routes.
	ErrNoToken      = apierr.Unauthorized("no_token", errors.New("No token provided"))
	ErrInvalidToken = apierr.Unauthorized("invalid_token", errors.New("Decoding ID token failed. Make sure you passed the entire string JWT which represents an ID token."))
	ErrAdminOnly    = apierr.Forbidden("admin_only", errors.New("Forbidden: Admins only"))
	ErrNotOwner     = apierr.Forbidden("not_owner", errors.New("Forbidden: not your account"))

	ErrJournalNotFound        = apierr.NotFound("journal_not_found", errors.New("Journal entry not found"))
	ErrJournalFieldsMissing   = apierr.BadRequest("missing_fields", errors.New("userId and content are required"))
	ErrContentRequired        = apierr.BadRequest("content_required", errors.New("content is required"))
	ErrSurveyQuestionsMissing = apierr.BadRequest("missing_fields", errors.New("questions are required"))
	ErrSurveyAnswersMissing   = apierr.BadRequest("missing_fields", errors.New("userId and answers are required"))

	ErrSurveyQuestionsNotFound = apierr.NotFound("survey_questions_not_found", errors.New("Survey questions not found"))
	ErrSurveyResultsNotFound   = apierr.NotFound("survey_results_not_found", errors.New("Survey results not found"))

	ErrCategoryNotFound = apierr.NotFound("category_not_found", errors.New("Category not found."))
	ErrMedicineNotFound = apierr.NotFound("medicine_not_found", errors.New("Medicine not found."))
	ErrCatalogNotFound  = apierr.NotFound("catalog_not_found", errors.New("File not found."))

	// ErrObjectNotFound is returned by BlobStore implementations for missing keys.
	ErrObjectNotFound = errors.New("object not found")
	// ErrIdentityNotFound is returned by IdentityProvider implementations for unknown users.
	ErrIdentityNotFound = errors.New("user not found")
)
