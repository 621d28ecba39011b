package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/BradenHooton/emporium/internal/auth"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
)

// LoginGate decides one login attempt
type LoginGate interface {
	Attempt(ctx context.Context, identity, secret string) (*auth.SessionArtifact, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	gate     LoginGate
	audit    *pkglogger.AuditLogger
	ipConfig *pkghttp.IPConfig
}

func NewAuthHandler(gate LoginGate, audit *pkglogger.AuditLogger, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		gate:     gate,
		audit:    audit,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login.
// The email is passed to the gate byte-for-byte.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// Login handles POST /api/authentication/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event := pkglogger.AuditEvent{
		Identity:  req.Email,
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.UserAgent(),
	}

	session, err := h.gate.Attempt(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLoginError(w, r, event, err)
		return
	}

	event.EventType = pkglogger.EventLoginSuccess
	event.UserID = session.AccountID
	event.Success = true
	h.audit.LogAuthAttempt(r.Context(), event)

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Email:  session.Identity,
		Name:   session.DisplayName,
		UserID: session.AccountID,
		Token:  session.Token,
	})
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, r *http.Request, event pkglogger.AuditEvent, err error) {
	var (
		locked  *auth.LockedOutError
		invalid *auth.InvalidCredentialsError
	)

	switch {
	case errors.As(err, &locked):
		event.EventType = pkglogger.EventLoginLocked
		event.FailureReason = "locked"
		h.audit.LogAuthAttempt(r.Context(), event)

		if secs := int(math.Ceil(locked.RetryAfter.Seconds())); secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		pkghttp.WriteForbidden(w, "Too many failed login attempts. Please try again later.")

	case errors.As(err, &invalid):
		event.EventType = pkglogger.EventLoginFailed
		event.FailureReason = "invalid_credentials"
		event.Metadata = map[string]string{"attempt": strconv.Itoa(invalid.AttemptsMade)}
		h.audit.LogAuthAttempt(r.Context(), event)

		pkghttp.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
			fmt.Sprintf("Wrong email or password. Attempt %d of %d", invalid.AttemptsMade, invalid.Max))

	default:
		event.EventType = pkglogger.EventLoginError
		event.FailureReason = "dependency_failure"
		h.audit.LogAuthAttempt(r.Context(), event)

		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
