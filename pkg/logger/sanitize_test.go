package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"user@example.com", "u***@*******.com"},
		{"a@x.com", "a@*.com"},
		{"first.last@mail.shop.io", "f*********@****.****.io"},
		{"no-at-sign", "[invalid-email]"},
		{"@example.com", "[invalid-email]"},
		{"user@", "[invalid-email]"},
		{"", "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizedEmail(tt.in))
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	assert.False(t, SanitizeQueryString(""))
	assert.False(t, SanitizeQueryString("page_number=2&page_size=5&sort=price:asc"))
	assert.True(t, SanitizeQueryString("search=email:bob"))
	assert.True(t, SanitizeQueryString("access_token=abc"))
	assert.True(t, SanitizeQueryString("Password=x"))
	assert.True(t, SanitizeQueryString("bad=%zz"))
}

func TestAuditLogger_MasksIdentityAndSetsLevel(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	audit.LogAuthAttempt(context.Background(), AuditEvent{
		EventType:     EventLoginFailed,
		Identity:      "user@example.com",
		IPAddress:     "203.0.113.1",
		Success:       false,
		FailureReason: "invalid_credentials",
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "auth", record["audit_type"])
	assert.Equal(t, EventLoginFailed, record["event_type"])
	assert.Equal(t, "u***@*******.com", record["email"])
	assert.Equal(t, "invalid_credentials", record["failure_reason"])
	assert.NotContains(t, buf.String(), "user@example.com")
}

func TestAuditLogger_LogAccountAction(t *testing.T) {
	var buf bytes.Buffer
	audit := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	audit.LogAccountAction(context.Background(), EventProductDeleted, "u-1", "10.0.0.1", map[string]string{"product_id": "p-9"})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, "p-9", record["product_id"])
}
