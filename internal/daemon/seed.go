package daemon

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/identity/gormstore"
)

const (
	seedEmail    = "admin@example.com"
	seedPassword = "changeme"
)

// seed creates a default user in an empty database. It only runs in dev mode.
func seed(ctx context.Context, store *gormstore.Store, hasher auth.PasswordHasher) error {
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return err
	}

	if _, err = store.Create(ctx, seedEmail, hash); err != nil {
		return err
	}

	log.Warn().Str("email", seedEmail).Msg("dev mode: created default user, change its password")

	return nil
}
