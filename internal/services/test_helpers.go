package services

import (
	"context"
	"strings"
	"time"

	"github.com/BradenHooton/emporium/internal/models"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	ListFunc           func(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error)
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc         func(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return []*models.User{}, 0, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockProductRepository implements ProductRepository for testing
type MockProductRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.Product, error)
	ListFunc    func(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error)
	CreateFunc  func(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateFunc  func(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) List(ctx context.Context, q models.ListQuery) ([]*models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return []*models.Product{}, 0, nil
}

func (m *MockProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductRepository) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPasswordHasher hashes by prefixing, so tests never pay for bcrypt
type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) (bool, error)
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return strings.TrimPrefix(hash, "hashed:") == password, nil
}

// MockSESClient implements SESClient for testing
type MockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}

// NewTestUser creates a user whose password is "Sturdy-Pass9"
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: "hashed:Sturdy-Pass9",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
