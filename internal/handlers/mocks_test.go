package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindcare-backend/internal/middleware"
	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/internal/services"
)

type MockUserManager struct {
	mock.Mock
}

func (m *MockUserManager) Register(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserManager) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResult), args.Error(1)
}

func (m *MockUserManager) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockUserManager) UpdateUser(ctx context.Context, uid, name, email string) error {
	return m.Called(ctx, uid, name, email).Error(0)
}

func (m *MockUserManager) GetUser(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserManager) LoginHistory(ctx context.Context, uid string, limit int) ([]time.Time, error) {
	args := m.Called(ctx, uid, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

type MockJournalManager struct {
	mock.Mock
}

func (m *MockJournalManager) Create(ctx context.Context, userID, title, content string) (*models.JournalEntry, error) {
	args := m.Called(ctx, userID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JournalEntry), args.Error(1)
}

func (m *MockJournalManager) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JournalEntry), args.Error(1)
}

func (m *MockJournalManager) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JournalEntry), args.Error(1)
}

func (m *MockJournalManager) Update(ctx context.Context, id, title, content string) (*models.Sentiment, error) {
	args := m.Called(ctx, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sentiment), args.Error(1)
}

func (m *MockJournalManager) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJournalManager) AnalyzeMood(ctx context.Context, content string) (*models.Sentiment, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sentiment), args.Error(1)
}

type MockSurveyManager struct {
	mock.Mock
}

func (m *MockSurveyManager) GetQuestions(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockSurveyManager) CreateSurvey(ctx context.Context, questions json.RawMessage) error {
	return m.Called(ctx, questions).Error(0)
}

func (m *MockSurveyManager) SubmitAnswers(ctx context.Context, userID string, answers json.RawMessage) error {
	return m.Called(ctx, userID, answers).Error(0)
}

func (m *MockSurveyManager) GetResults(ctx context.Context, userID string) ([]models.SurveyResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SurveyResponse), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ByCategory(category, name string) ([]models.Medicine, error) {
	args := m.Called(category, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medicine), args.Error(1)
}

func (m *MockCatalog) General() ([]models.Medicine, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medicine), args.Error(1)
}

// serve runs a single request through a chi router so URL params resolve.
// as runs h as if RequireToken had verified tok.
func as(tok *services.IdentityToken, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(middleware.WithIdentity(r.Context(), tok)))
	}
}

func serve(t *testing.T, method, pattern string, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
