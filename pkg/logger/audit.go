package logger

import (
	"context"
	"log/slog"
	"time"
)

// Audit event types
const (
	EventLoginSuccess   = "login_success"
	EventLoginFailed    = "login_failed"
	EventLoginLocked    = "login_locked"
	EventLoginError     = "login_error"
	EventUserCreated    = "user_created"
	EventUserUpdated    = "user_updated"
	EventUserDeleted    = "user_deleted"
	EventPasswordChange = "password_change"
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	Identity      string // login identity; masked before it is written
	UserID        string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes audit records through a structured logger
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

// LogAuthAttempt logs one login outcome
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	al.write(ctx, "auth", event)
}

// LogAccountAction logs a user or product mutation performed by actorID
func (al *AuditLogger) LogAccountAction(ctx context.Context, eventType, actorID, ipAddress string, metadata map[string]string) {
	al.write(ctx, "account", AuditEvent{
		EventType: eventType,
		UserID:    actorID,
		IPAddress: ipAddress,
		Success:   true,
		Metadata:  metadata,
	})
}

func (al *AuditLogger) write(ctx context.Context, auditType string, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}

	if event.Identity != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Identity)))
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}
