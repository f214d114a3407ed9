package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/services/absence"
	"github.com/upb/hr-platform/services/enrichment"
	"github.com/upb/hr-platform/services/feedback"
	"github.com/upb/hr-platform/services/profile"
)

var (
	employeeID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	managerID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	employee = models.NewPrincipal(employeeID, "ana@example.com", models.RoleEmployee, "Ana Employee")
	manager  = models.NewPrincipal(managerID, "maria@example.com", models.RoleManager, "Maria Manager")
)

// envelope decodes either response shape
type envelope struct {
	Data    json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func withPrincipal(r *http.Request, p models.Principal) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &p))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, principal *models.Principal) {
	m.Called(ctx, principal)
}

func (m *MockAuthenticator) Validate(ctx context.Context, tokenString string) (*models.UserSummary, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSummary), args.Error(1)
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetMe(ctx context.Context, principal models.Principal) (*models.FullProfile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FullProfile), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context) ([]*models.PublicProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublicProfile), args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, principal models.Principal, id uuid.UUID) (profile.Profile, error) {
	args := m.Called(ctx, principal, id)
	return args.Get(0).(profile.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, principal models.Principal, id uuid.UUID, input profile.UpdateInput) (*models.FullProfile, error) {
	args := m.Called(ctx, principal, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FullProfile), args.Error(1)
}

// MockAbsenceService is a mock implementation of AbsenceService
type MockAbsenceService struct {
	mock.Mock
}

func (m *MockAbsenceService) ListMine(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AbsenceRequest), args.Error(1)
}

func (m *MockAbsenceService) ListPending(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AbsenceRequest), args.Error(1)
}

func (m *MockAbsenceService) Create(ctx context.Context, principal models.Principal, input absence.CreateInput) (*models.AbsenceRequest, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AbsenceRequest), args.Error(1)
}

func (m *MockAbsenceService) Approve(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AbsenceRequest), args.Error(1)
}

func (m *MockAbsenceService) Reject(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AbsenceRequest), args.Error(1)
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) List(ctx context.Context, profileID uuid.UUID) ([]*models.Feedback, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Create(ctx context.Context, principal models.Principal, profileID uuid.UUID, input feedback.CreateInput) (*models.Feedback, error) {
	args := m.Called(ctx, principal, profileID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

// MockPolisher is a mock implementation of enrichment.Polisher
type MockPolisher struct {
	mock.Mock
}

func (m *MockPolisher) Polish(ctx context.Context, req enrichment.Request) (*enrichment.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrichment.Result), args.Error(1)
}
