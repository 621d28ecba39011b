package auth

import (
	"testing"
	"time"

	"github.com/BradenHooton/emporium/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret-0123456789"

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	token, err := tm.IssueToken("a@x.com", "u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, models.TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)

	first, err := tm.IssueToken("a@x.com", "u-1")
	require.NoError(t, err)
	second, err := tm.IssueToken("a@x.com", "u-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, err := tm.IssueToken("a@x.com", "u-1")
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Minute).IssueToken("a@x.com", "u-1")
	require.NoError(t, err)

	_, err = NewTokenManager("another-signing-secret-9876543210", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnexpectedAlgorithm(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute)
	claims := &models.TokenClaims{
		Type:   models.TokenTypeAccess,
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongType(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute)
	claims := &models.TokenClaims{
		Type:   "refresh",
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute)

	_, err := tm.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
