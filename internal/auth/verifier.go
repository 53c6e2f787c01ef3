package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/identity"
)

// CredentialVerifier checks an email and password against a user source.
//
// A non-nil error is returned only together with a Rejected outcome carrying
// ReasonStoreUnavailable; it wraps identity.ErrUnavailable.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (Outcome, error)
	Strategy() string
}

// NewVerifier builds the verifier selected by cfg.Strategy. timeout bounds
// every identity store lookup made while verifying.
func NewVerifier(cfg config.Auth, store identity.Store, hasher PasswordHasher, timeout time.Duration) (CredentialVerifier, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	switch cfg.Strategy {
	case "", config.StrategyLocal:
		return NewLocalVerifier(store, hasher, timeout), nil
	case config.StrategyLDAP:
		return NewLDAPVerifier(cfg.LDAP, store, timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

// unavailable wraps err so callers can match identity.ErrUnavailable.
func unavailable(err error) error {
	if err == nil {
		return identity.ErrUnavailable
	}

	return fmt.Errorf("%w: %w", identity.ErrUnavailable, err)
}

// findByEmail runs the store lookup under timeout.
func findByEmail(ctx context.Context, store identity.Store, email string, timeout time.Duration) ([]identity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return store.FindByEmail(ctx, email)
}
