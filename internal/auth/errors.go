package auth

import (
	"fmt"
	"time"
)

// LockedOutError is returned while an identity is locked.
// Credentials were not checked.
type LockedOutError struct {
	RetryAfter time.Duration // upper bound on the remaining lock time
}

func (e *LockedOutError) Error() string {
	return "too many failed login attempts"
}

// InvalidCredentialsError is returned for an unknown identity or a wrong secret.
// AttemptsMade is the failure count after this attempt was recorded.
type InvalidCredentialsError struct {
	AttemptsMade int
	Max          int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: attempt %d of %d", e.AttemptsMade, e.Max)
}

// DependencyError wraps an account store, hashing or token failure.
// The attempt is not counted.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
