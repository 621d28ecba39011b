package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/BradenHooton/emporium/internal/models"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   models.TokenTypeAccess,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithURLParam sets a chi route parameter on the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// NewTestAuditLogger discards audit output
func NewTestAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// MockLoginGate implements LoginGate for testing
type MockLoginGate struct {
	AttemptFunc func(ctx context.Context, identity, secret string) (*auth.SessionArtifact, error)
}

func (m *MockLoginGate) Attempt(ctx context.Context, identity, secret string) (*auth.SessionArtifact, error) {
	if m.AttemptFunc == nil {
		return nil, &auth.InvalidCredentialsError{AttemptsMade: 1, Max: auth.DefaultMaxFailedAttempts}
	}
	return m.AttemptFunc(ctx, identity, secret)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc      func(ctx context.Context, q models.ListQuery) (models.Page[*models.User], error)
	CreateUserFunc     func(ctx context.Context, user *models.User, password, passwordConfirm string) (*models.User, error)
	UpdateUserFunc     func(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUserFunc     func(ctx context.Context, id string) error
	ChangePasswordFunc func(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, q models.ListQuery) (models.Page[*models.User], error) {
	if m.ListUsersFunc == nil {
		return models.Page[*models.User]{PageNumber: q.PageNumber, PageSize: q.PageSize}, nil
	}
	return m.ListUsersFunc(ctx, q)
}

func (m *MockUserService) CreateUser(ctx context.Context, user *models.User, password, passwordConfirm string) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrEmailTaken
	}
	return m.CreateUserFunc(ctx, user, password, passwordConfirm)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, id, upd)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, id)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword, confirm)
}

// MockProductService implements ProductService for testing
type MockProductService struct {
	GetProductFunc    func(ctx context.Context, id string) (*models.Product, error)
	ListProductsFunc  func(ctx context.Context, q models.ListQuery) (models.Page[*models.Product], error)
	CreateProductFunc func(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProductFunc func(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteProductFunc func(ctx context.Context, id string) error
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if m.GetProductFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProductFunc(ctx, id)
}

func (m *MockProductService) ListProducts(ctx context.Context, q models.ListQuery) (models.Page[*models.Product], error) {
	if m.ListProductsFunc == nil {
		return models.Page[*models.Product]{PageNumber: q.PageNumber, PageSize: q.PageSize}, nil
	}
	return m.ListProductsFunc(ctx, q)
}

func (m *MockProductService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if m.CreateProductFunc == nil {
		p.ID = "p-new"
		return p, nil
	}
	return m.CreateProductFunc(ctx, p)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	if m.UpdateProductFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateProductFunc(ctx, id, upd)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) error {
	if m.DeleteProductFunc == nil {
		return nil
	}
	return m.DeleteProductFunc(ctx, id)
}

// MockHealthChecker implements HealthChecker for testing
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}
