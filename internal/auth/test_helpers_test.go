package auth_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BradenHooton/emporium/internal/models"
	pkgauth "github.com/BradenHooton/emporium/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// fakeClock is a manually advanced clock for tracker and token tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockAccountLookup implements auth.AccountLookup
type MockAccountLookup struct {
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	calls          atomic.Int32
}

func (m *MockAccountLookup) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.calls.Add(1)
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

// accountsWith serves a fixed set of accounts keyed by exact email
func accountsWith(users ...*models.User) *MockAccountLookup {
	byEmail := make(map[string]*models.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return &MockAccountLookup{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			return nil, models.ErrNotFound
		},
	}
}

// recordingHasher wraps a real bcrypt hasher and records every comparison
type recordingHasher struct {
	inner       *pkgauth.BcryptHasher
	CompareFunc func(hash, password string) (bool, error)

	mu       sync.Mutex
	hashes   int
	compared []string
}

func newRecordingHasher() *recordingHasher {
	return &recordingHasher{inner: pkgauth.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *recordingHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	return h.inner.Hash(password)
}

func (h *recordingHasher) Compare(hash, password string) (bool, error) {
	h.mu.Lock()
	h.compared = append(h.compared, hash)
	h.mu.Unlock()
	if h.CompareFunc != nil {
		return h.CompareFunc(hash, password)
	}
	return h.inner.Compare(hash, password)
}

func (h *recordingHasher) Compares() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.compared...)
}

// MockVerifier implements auth.Verifier
type MockVerifier struct {
	VerifyFunc func(ctx context.Context, identity, secret string) (*models.User, bool, error)
	calls      atomic.Int32
}

func (m *MockVerifier) Verify(ctx context.Context, identity, secret string) (*models.User, bool, error) {
	m.calls.Add(1)
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identity, secret)
	}
	return nil, false, nil
}

// MockTokenIssuer implements auth.TokenIssuer
type MockTokenIssuer struct {
	IssueTokenFunc func(identity, accountID string) (string, error)
}

func (m *MockTokenIssuer) IssueToken(identity, accountID string) (string, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(identity, accountID)
	}
	return "token-for-" + accountID, nil
}

// MockLockoutNotifier records lockout notifications
type MockLockoutNotifier struct {
	notified chan string
}

func newMockLockoutNotifier() *MockLockoutNotifier {
	return &MockLockoutNotifier{notified: make(chan string, 8)}
}

func (m *MockLockoutNotifier) NotifyLockout(ctx context.Context, account *models.User, failures int) {
	m.notified <- account.Email
}
