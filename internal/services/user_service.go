package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/emporium/internal/models"
	"github.com/BradenHooton/emporium/pkg/auth"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// PasswordHasher hashes new passwords and checks existing ones
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// UserService handles user business logic
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewUserService(repo UserRepository, hasher PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// ListUsers returns one page of users matching q
func (s *UserService) ListUsers(ctx context.Context, q models.ListQuery) (models.Page[*models.User], error) {
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("failed to list users",
			slog.Int("page_number", q.PageNumber),
			slog.Int("page_size", q.PageSize),
			slog.Any("error", err))
		return models.Page[*models.User]{}, models.ErrInternalServer
	}

	return models.Page[*models.User]{
		Items:      users,
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		Total:      total,
	}, nil
}

// CreateUser registers a new account. The email is stored exactly as given.
func (s *UserService) CreateUser(ctx context.Context, user *models.User, password, passwordConfirm string) (*models.User, error) {
	if password != passwordConfirm {
		return nil, models.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		s.logger.Info("email already registered", slog.String("email", pkglogger.SanitizedEmail(user.Email)))
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrEmailTaken
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", created.ID))
	return created, nil
}

// UpdateUser replaces a user's name and email
func (s *UserService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrConflict):
			return nil, models.ErrEmailTaken
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updated, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return models.ErrPasswordMismatch
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Compare(user.PasswordHash, oldPassword)
	if err != nil {
		s.logger.Error("failed to compare password", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	if !ok {
		s.logger.Warn("password change rejected", slog.String("user_id", id))
		return models.ErrWrongPassword
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to update password", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("user_id", id))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if no account owns email.
// It reports whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	_, err := s.CreateUser(ctx, &models.User{Name: name, Email: email, Role: models.RoleAdmin}, password, password)
	if errors.Is(err, models.ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
