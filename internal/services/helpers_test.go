package services

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
)

type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut map[string]error
	failDel map[string]error
	uploads int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{
		objects: map[string][]byte{},
		failPut: map[string]error{},
		failDel: map[string]error{},
	}
}

func (m *memBlobStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memBlobStore) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memBlobStore) Upload(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failPut[key]; err != nil {
		return err
	}
	m.uploads++
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failDel[key]; err != nil {
		return err
	}
	if _, ok := m.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) has(key string) bool {
	ok, _ := m.Exists(context.Background(), key)
	return ok
}

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) GetUserByEmail(ctx context.Context, email string) (*IdentityUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IdentityUser), args.Error(1)
}

func (m *MockIdentity) CreateUser(ctx context.Context, name, email, password string) (*IdentityUser, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IdentityUser), args.Error(1)
}

func (m *MockIdentity) UpdateUser(ctx context.Context, uid, name, email string) error {
	return m.Called(ctx, uid, name, email).Error(0)
}

func (m *MockIdentity) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockIdentity) CustomToken(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *MockIdentity) VerifyIDToken(ctx context.Context, idToken string) (*IdentityToken, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IdentityToken), args.Error(1)
}

type stubAnalyzer struct {
	score float64
	err   error
	calls int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string) (*models.Sentiment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Sentiment{Score: s.score, Magnitude: 1, Mood: InterpretMood(s.score)}, nil
}

var errBoom = errors.New("boom")
