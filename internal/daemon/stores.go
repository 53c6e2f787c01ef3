package daemon

import (
	"fmt"

	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/db"
	"github.com/passgate/passgate/internal/identity"
	"github.com/passgate/passgate/internal/identity/gormstore"
	"github.com/passgate/passgate/internal/identity/httpstore"
)

// ErrUnknownIdentityType is returned for an unsupported Identity.Type.
var ErrUnknownIdentityType = fmt.Errorf("unknown identity store type")

// OpenIdentityStore opens the identity store selected by cfg.Identity.Type.
// The gorm store is returned also as *gormstore.Store for maintenance tasks.
func OpenIdentityStore(cfg *config.Config) (identity.Store, *gormstore.Store, error) {
	switch cfg.Identity.Type {
	case "", config.IdentityDB:
		gdb, err := db.Open(&cfg.DB)
		if err != nil {
			return nil, nil, err
		}

		store := gormstore.New(gdb)

		return store, store, nil
	case config.IdentityHTTP:
		store, err := httpstore.New(cfg.Identity.BaseURL, cfg.Identity.Timeout)
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownIdentityType, cfg.Identity.Type)
	}
}
