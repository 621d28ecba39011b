package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/emporium/internal/models"
	pkgauth "github.com/BradenHooton/emporium/pkg/auth"
)

// AccountLookup finds the account registered under a login identity
type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher is the slow hash primitive shared by account creation and login
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// CredentialVerifier checks an identity and secret against the account store.
// Exactly one hash comparison runs per call whether or not the account exists,
// so response time does not reveal which identities are registered.
type CredentialVerifier struct {
	accounts  AccountLookup
	hasher    PasswordHasher
	dummyHash string
}

// NewCredentialVerifier builds a verifier whose dummy hash is a fresh random secret
// hashed by hasher, so it carries the same cost as every stored password.
func NewCredentialVerifier(accounts AccountLookup, hasher PasswordHasher) (*CredentialVerifier, error) {
	secret, err := pkgauth.RandomSecret()
	if err != nil {
		return nil, err
	}

	dummyHash, err := hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to build dummy hash: %w", err)
	}

	return &CredentialVerifier{
		accounts:  accounts,
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

// Verify reports whether secret is correct for identity. The account is returned
// whenever identity is registered, even on a mismatch; unknown identities return
// (nil, false, nil).
// Store and hash failures are returned as errors and are never reported as a mismatch.
func (v *CredentialVerifier) Verify(ctx context.Context, identity, secret string) (*models.User, bool, error) {
	account, err := v.accounts.GetByEmail(ctx, identity)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, false, fmt.Errorf("account lookup failed: %w", err)
	}

	hash := v.dummyHash
	known := err == nil && account != nil && account.PasswordHash != ""
	if known {
		hash = account.PasswordHash
	}

	match, err := v.hasher.Compare(hash, secret)
	if err != nil {
		return nil, false, err
	}

	if !known {
		return account, false, nil
	}
	return account, match, nil
}
