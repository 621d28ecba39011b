package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/emporium/internal/auth"
	"github.com/BradenHooton/emporium/internal/models"
	pkgauth "github.com/BradenHooton/emporium/pkg/auth"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, q models.ListQuery) (models.Page[*models.User], error)
	CreateUser(ctx context.Context, user *models.User, password, passwordConfirm string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service  UserService
	audit    *pkglogger.AuditLogger
	ipConfig *pkghttp.IPConfig
}

func NewUserHandler(service UserService, audit *pkglogger.AuditLogger, ipConfig *pkghttp.IPConfig) *UserHandler {
	return &UserHandler{
		service:  service,
		audit:    audit,
		ipConfig: ipConfig,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	PasswordOld     string `json:"password_old" validate:"required"`
	PasswordNew     string `json:"password_new" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type idResponse struct {
	ID string `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func userModelToResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// RegisterRoutes mounts the user routes. requireAdmin guards creation and deletion.
func (h *UserHandler) RegisterRoutes(router chi.Router, requireAdmin func(http.Handler) http.Handler) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Patch("/{id}/change-password", h.ChangePassword)

		r.With(requireAdmin).Post("/", h.CreateUser)
		r.With(requireAdmin).Delete("/{id}", h.DeleteUser)
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, userListFields)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	page, err := h.service.ListUsers(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, newPageResponse(page, userModelToResponse))
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(),
		&models.User{Name: req.Name, Email: req.Email, Role: models.RoleUser},
		req.Password, req.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventUserCreated, user.ID)
	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(user))
}

// UpdateUser handles PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.checkUserAccess(r, id); err != nil {
		writeServiceError(w, err)
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, models.UserUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventUserUpdated, id)
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventUserDeleted, id)
	pkghttp.WriteJSON(w, http.StatusOK, idResponse{ID: id})
}

// ChangePassword handles PATCH /users/{id}/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.checkUserAccess(r, id); err != nil {
		writeServiceError(w, err)
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.PasswordOld, req.PasswordNew, req.PasswordConfirm); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logAction(r, pkglogger.EventPasswordChange, id)
	pkghttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password changed"})
}

// checkUserAccess allows a user to act on their own record, and admins on any
func (h *UserHandler) checkUserAccess(r *http.Request, requestedUserID string) error {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		return models.ErrUnauthorized
	}
	if claims.UserID == requestedUserID {
		return nil
	}

	actor, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnauthorized
		}
		return err
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	return models.ErrForbidden
}

func (h *UserHandler) logAction(r *http.Request, eventType, targetID string) {
	actorID := ""
	if claims := auth.GetUserFromContext(r); claims != nil {
		actorID = claims.UserID
	}
	h.audit.LogAccountAction(r.Context(), eventType, actorID,
		pkghttp.ExtractClientIP(r, h.ipConfig), map[string]string{"target_id": targetID})
}

// writeServiceError maps service sentinels onto the JSON error envelope
func writeServiceError(w http.ResponseWriter, err error) {
	var pve *pkgauth.PasswordValidationError

	switch {
	case errors.As(err, &pve):
		pkghttp.WriteBadRequest(w, pve.Error())
	case errors.Is(err, models.ErrPasswordMismatch):
		pkghttp.WriteBadRequest(w, "Passwords do not match")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid request")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication required")
	case errors.Is(err, models.ErrWrongPassword):
		pkghttp.WriteForbidden(w, "Current password is incorrect")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "You cannot modify this resource")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Email is already registered")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
