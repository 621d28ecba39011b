package auth

import (
	"sync"
	"time"
)

const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutWindow     = 30 * time.Minute
)

// AttemptConfig holds the lockout policy for an AttemptTracker
type AttemptConfig struct {
	MaxFailures int              // failures that lock an identity
	Window      time.Duration    // lock lifetime, measured from the latest failure
	Now         func() time.Time // clock override for tests
}

// AttemptRecord is the failure history of one identity.
// Count and timestamp live in a single value so they are always replaced together.
type AttemptRecord struct {
	FailureCount  int
	LastFailureAt time.Time
}

// LockStatus is the result of a lock check
type LockStatus struct {
	Locked            bool
	RemainingAttempts int
	RetryAfter        time.Duration // time left on the lock; zero when unlocked
}

// AttemptTracker counts failed logins per identity and decides lockout.
// State is in-memory and shared by every request in the process.
type AttemptTracker struct {
	mu          sync.Mutex
	records     map[string]AttemptRecord
	maxFailures int
	window      time.Duration
	now         func() time.Time
}

// NewAttemptTracker creates a tracker, falling back to the default policy for unset fields
func NewAttemptTracker(config AttemptConfig) *AttemptTracker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultMaxFailedAttempts
	}
	if config.Window <= 0 {
		config.Window = DefaultLockoutWindow
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &AttemptTracker{
		records:     make(map[string]AttemptRecord),
		maxFailures: config.MaxFailures,
		window:      config.Window,
		now:         config.Now,
	}
}

// MaxFailures returns the lockout threshold
func (t *AttemptTracker) MaxFailures() int {
	return t.maxFailures
}

// Window returns the lockout window
func (t *AttemptTracker) Window() time.Duration {
	return t.window
}

func (t *AttemptTracker) expired(rec AttemptRecord, now time.Time) bool {
	return now.Sub(rec.LastFailureAt) >= t.window
}

// IsLocked reports whether identity is locked out.
// An expired record is deleted before the check, so the identity starts over with a full budget.
func (t *AttemptTracker) IsLocked(identity string) LockStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[identity]
	if !ok {
		return LockStatus{Locked: false, RemainingAttempts: t.maxFailures}
	}

	now := t.now()
	if t.expired(rec, now) {
		delete(t.records, identity)
		return LockStatus{Locked: false, RemainingAttempts: t.maxFailures}
	}

	if rec.FailureCount >= t.maxFailures {
		return LockStatus{
			Locked:            true,
			RemainingAttempts: 0,
			RetryAfter:        t.window - now.Sub(rec.LastFailureAt),
		}
	}

	return LockStatus{Locked: false, RemainingAttempts: t.maxFailures - rec.FailureCount}
}

// RecordFailure increments the failure count for identity and returns the new count.
// A missing or expired record restarts at 1.
func (t *AttemptTracker) RecordFailure(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.records[identity]
	if !ok || t.expired(rec, now) {
		rec = AttemptRecord{}
	}

	rec.FailureCount++
	rec.LastFailureAt = now
	t.records[identity] = rec

	return rec.FailureCount
}

// RecordSuccess clears the failure history for identity. Safe to call when none exists.
func (t *AttemptTracker) RecordSuccess(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, identity)
}

// Sweep deletes every expired record and returns how many were removed.
// It only drops records that IsLocked would already treat as gone.
func (t *AttemptTracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for identity, rec := range t.records {
		if t.expired(rec, now) {
			delete(t.records, identity)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identities, expired ones included
func (t *AttemptTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}
