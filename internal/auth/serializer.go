package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/identity"
)

// DefaultResolveTimeout bounds identity store calls when no timeout is configured.
const DefaultResolveTimeout = 5 * time.Second

// IdentityToken is what a session stores to refer to its user: the user id.
type IdentityToken string

// Serializer converts users to session tokens and back.
type Serializer struct {
	store   identity.Store
	timeout time.Duration
}

// NewSerializer creates a serializer reading from store.
func NewSerializer(store identity.Store, timeout time.Duration) (*Serializer, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	return &Serializer{store: store, timeout: timeout}, nil
}

// Serialize returns the token for u. It carries only the id.
func (s *Serializer) Serialize(u *identity.User) IdentityToken {
	if u == nil {
		return ""
	}

	return IdentityToken(u.ID)
}

// Deserialize resolves a token to its user. Any failure yields (nil, false).
func (s *Serializer) Deserialize(ctx context.Context, token IdentityToken) (*identity.User, bool) {
	if token == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.store.FindByID(ctx, string(token))

	switch {
	case err == nil && user != nil:
		observeResolve("resolved")
		return user, true
	case err == nil, errors.Is(err, identity.ErrNotFound):
		log.Debug().Str("user_id", string(token)).Msg("identity token does not resolve to a user")
		observeResolve("not_found")
	default:
		log.Warn().Err(err).Str("user_id", string(token)).Msg("failed to resolve identity token")
		observeResolve("error")
	}

	return nil, false
}
