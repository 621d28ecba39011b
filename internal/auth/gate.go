package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/emporium/internal/models"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
)

// SessionArtifact is what a successful login hands back to the client
type SessionArtifact struct {
	Identity    string
	DisplayName string
	AccountID   string
	Token       string
}

// Verifier checks credentials; *CredentialVerifier is the production implementation
type Verifier interface {
	Verify(ctx context.Context, identity, secret string) (*models.User, bool, error)
}

// TokenIssuer mints the session token for an authenticated account
type TokenIssuer interface {
	IssueToken(identity, accountID string) (string, error)
}

// LockoutNotifier is told when a registered account reaches the lockout threshold.
// Identities without an account are never passed on. It runs off the request path.
type LockoutNotifier interface {
	NotifyLockout(ctx context.Context, account *models.User, failures int)
}

// LoginGate is the only entry point for password logins.
// Each Attempt ends in exactly one of: a session, LockedOutError,
// InvalidCredentialsError or DependencyError.
type LoginGate struct {
	tracker  *AttemptTracker
	verifier Verifier
	tokens   TokenIssuer
	logger   *slog.Logger

	timing   *TimingDelay
	notifier LockoutNotifier
}

// NewLoginGate creates a gate over a shared tracker
func NewLoginGate(tracker *AttemptTracker, verifier Verifier, tokens TokenIssuer, logger *slog.Logger) *LoginGate {
	return &LoginGate{
		tracker:  tracker,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger,
	}
}

// SetTimingDelay pads InvalidCredentials responses to a minimum duration
func (g *LoginGate) SetTimingDelay(td *TimingDelay) {
	g.timing = td
}

// SetLockoutNotifier registers a callback for identities that just became locked
func (g *LoginGate) SetLockoutNotifier(n LockoutNotifier) {
	g.notifier = n
}

// Attempt runs one login attempt.
//
// A locked identity is rejected before any credential check. A failed check is
// counted; a successful one clears the history. Dependency failures leave the
// tracker untouched. The lock check and the failure count are separate critical
// sections, so concurrent attempts that all pass the check are all verified.
func (g *LoginGate) Attempt(ctx context.Context, identity, secret string) (*SessionArtifact, error) {
	start := time.Now()

	status := g.tracker.IsLocked(identity)
	if status.Locked {
		g.logger.Info("login rejected: identity locked",
			slog.String("email", pkglogger.SanitizedEmail(identity)),
			slog.Duration("retry_after", status.RetryAfter))
		return nil, &LockedOutError{RetryAfter: status.RetryAfter}
	}

	account, ok, err := g.verifier.Verify(ctx, identity, secret)
	if err != nil {
		g.logger.Error("credential verification failed",
			slog.String("email", pkglogger.SanitizedEmail(identity)),
			slog.Any("error", err))
		return nil, &DependencyError{Op: "verify credentials", Err: err}
	}

	if !ok {
		failures := g.tracker.RecordFailure(identity)
		if failures == g.tracker.MaxFailures() {
			g.notifyLockout(ctx, identity, account, failures)
		}
		if g.timing.Enabled() {
			g.timing.WaitFrom(ctx, start)
		}
		return nil, &InvalidCredentialsError{AttemptsMade: failures, Max: g.tracker.MaxFailures()}
	}

	// Issue before clearing the history so a signing failure changes nothing.
	token, err := g.tokens.IssueToken(identity, account.ID)
	if err != nil {
		g.logger.Error("failed to issue session token",
			slog.String("user_id", account.ID),
			slog.Any("error", err))
		return nil, &DependencyError{Op: "issue token", Err: err}
	}

	g.tracker.RecordSuccess(identity)

	return &SessionArtifact{
		Identity:    identity,
		DisplayName: account.Name,
		AccountID:   account.ID,
		Token:       token,
	}, nil
}

func (g *LoginGate) notifyLockout(ctx context.Context, identity string, account *models.User, failures int) {
	g.logger.Warn("identity locked after repeated failures",
		slog.String("email", pkglogger.SanitizedEmail(identity)),
		slog.Int("failures", failures),
		slog.Duration("window", g.tracker.Window()))

	if g.notifier == nil || account == nil {
		return
	}
	go g.notifier.NotifyLockout(context.WithoutCancel(ctx), account, failures)
}
