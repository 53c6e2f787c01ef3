// Package daemon wires the configuration into the stores, the
// authentication core and the web service.
package daemon

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web"
	"github.com/passgate/passgate/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	storage    fiber.Storage
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(d.webService.Addr())
	}()

	go d.webService.WaitShutdown()

	err := <-errCh

	if errClose := d.storage.Close(); errClose != nil {
		log.Warn().Err(errClose).Msg("failed to close session storage")
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	store, dbStore, err := OpenIdentityStore(cfg)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewHasher(cfg.Auth)
	if err != nil {
		return nil, err
	}

	if cfg.DevMode && dbStore != nil {
		if err = seed(context.Background(), dbStore, hasher); err != nil {
			return nil, err
		}
	}

	verifier, err := auth.NewVerifier(cfg.Auth, store, hasher, cfg.Identity.Timeout)
	if err != nil {
		return nil, err
	}

	serializer, err := auth.NewSerializer(store, cfg.Identity.Timeout)
	if err != nil {
		return nil, err
	}

	storage, err := session.NewStorage(cfg.Webserver.Session.Storage, cfg.DB)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(session.Config{
		Storage:    storage,
		Expiration: cfg.Webserver.Session.ExpiryTime,
		CookieName: cfg.Webserver.Session.CookieName,
	})
	if err != nil {
		return nil, err
	}

	webService, err := web.New(&handler.Env{
		Cfg:        cfg,
		Store:      store,
		Sessions:   sessions,
		Flash:      session.NewFlash(sessions),
		Verifier:   verifier,
		Serializer: serializer,
		Hasher:     hasher,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("strategy", verifier.Strategy()).
		Str("identity", cfg.Identity.Type).
		Str("session_storage", cfg.Webserver.Session.Storage.Type).
		Int("port", cfg.Webserver.Port).
		Msg("daemon initialized")

	return &Daemon{webService: webService, storage: storage}, nil
}
