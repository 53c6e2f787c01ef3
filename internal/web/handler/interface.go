package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/identity"
	"github.com/passgate/passgate/internal/session"
)

// Env carries the dependencies shared by all handlers.
type Env struct {
	Cfg        *config.Config
	Store      identity.Store
	Sessions   *session.Manager
	Flash      *session.Flash
	Verifier   auth.CredentialVerifier
	Serializer *auth.Serializer
	Hasher     auth.PasswordHasher
	Gate       auth.Gate
}

// Valid reports whether every dependency is set.
func (e *Env) Valid() bool {
	return e != nil && e.Cfg != nil && e.Store != nil && e.Sessions != nil && e.Flash != nil &&
		e.Verifier != nil && e.Serializer != nil && e.Hasher != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, env *Env) error
}
