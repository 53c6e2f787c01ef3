// Package signup registers new identity records and logs them in.
package signup

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/identity"
	"github.com/passgate/passgate/internal/web/handler"
	"github.com/passgate/passgate/internal/web/handler/login"
)

const (
	// Path is the path to the sign-up page.
	Path = "/sign-up"

	// MsgEmailTaken is flashed when the email is already registered.
	MsgEmailTaken = "email already registered"
)

// Service is the sign-up handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init initializes the sign-up handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the sign-up form.
func (s *Service) Get(c *fiber.Ctx) error {
	if handler.CurrentUser(c) != nil {
		return c.Redirect(handler.AuthRequiredPath)
	}

	msg, _ := s.env.Flash.Pop(c.UserContext(), handler.Session(c))

	return c.Render("signup", handler.ViewData(c, s.env, fiber.Map{
		"error": msg,
	}), handler.BaseLayout)
}

// Post creates the user and runs the login path with the same credential.
func (s *Service) Post(c *fiber.Ctx) error {
	rec := handler.Session(c)

	cred, err := login.ParseCredential(c)
	if err != nil {
		s.env.Flash.Push(rec, login.MsgMalformed)
		return c.Redirect(Path)
	}

	hash, err := s.env.Hasher.Hash(cred.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return fiber.ErrInternalServerError
	}

	ctx, cancel := handler.IdentityContext(c, s.env)
	user, err := s.env.Store.Create(ctx, cred.Email, hash)

	cancel()

	switch {
	case errors.Is(err, identity.ErrConflict):
		s.env.Flash.Push(rec, MsgEmailTaken)
		return c.Redirect(Path)
	case err != nil:
		log.Error().Err(err).Msg("failed to create user")
		s.env.Flash.Push(rec, auth.ReasonStoreUnavailable)

		return c.Redirect(login.Path)
	}

	log.Info().Str("user_id", user.ID).Msg("user signed up")

	outcome, err := handler.LogIn(c, s.env, cred)

	switch {
	case err != nil:
		s.env.Flash.Push(rec, auth.ReasonStoreUnavailable)
		return c.Redirect(login.Path)
	case !outcome.OK():
		s.env.Flash.Push(rec, outcome.Reason)
		return c.Redirect(login.Path)
	}

	return c.Redirect(handler.AuthRequiredPath)
}
