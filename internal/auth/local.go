package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/identity"
)

// dummyPassword is hashed once and compared against when no record matches,
// so unknown emails cost about the same as a wrong password.
const dummyPassword = "passgate-dummy-password"

// LocalVerifier verifies credentials against password hashes held by the identity store.
type LocalVerifier struct {
	store   identity.Store
	hasher  PasswordHasher
	timeout time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewLocalVerifier creates a local verifier. A nil hasher means bcrypt with
// DefaultBcryptCost. timeout bounds the store lookup, zero means
// DefaultResolveTimeout.
func NewLocalVerifier(store identity.Store, hasher PasswordHasher, timeout time.Duration) *LocalVerifier {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}

	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	return &LocalVerifier{
		store:   store,
		hasher:  hasher,
		timeout: timeout,
	}
}

// Strategy implements CredentialVerifier.
func (v *LocalVerifier) Strategy() string {
	return config.StrategyLocal
}

// Verify implements CredentialVerifier.
func (v *LocalVerifier) Verify(ctx context.Context, email, password string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return rejected(ReasonStoreUnavailable), unavailable(err)
	}

	if email == "" {
		v.burn(password)
		return rejected(ReasonInvalidCredentials), nil
	}

	users, err := findByEmail(ctx, v.store, email, v.timeout)
	if err != nil {
		if !errors.Is(err, identity.ErrUnavailable) {
			err = unavailable(err)
		}

		return rejected(ReasonStoreUnavailable), err
	}

	if len(users) == 0 {
		v.burn(password)
		return rejected(ReasonInvalidCredentials), nil
	}

	user := users[0]

	match, err := v.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash can not be compared")
		return rejected(ReasonInvalidCredentials), nil
	}

	if !match {
		return rejected(ReasonInvalidCredentials), nil
	}

	return authenticated(&user), nil
}

// burn runs a comparison that always fails.
func (v *LocalVerifier) burn(password string) {
	v.dummyOnce.Do(func() {
		hash, err := v.hasher.Hash(dummyPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to create dummy password hash")
			return
		}

		v.dummyHash = hash
	})

	if v.dummyHash == "" {
		return
	}

	_, _ = v.hasher.Compare(v.dummyHash, password)
}
