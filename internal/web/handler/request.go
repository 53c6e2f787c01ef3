package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/identity"
	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web/navigation"
)

// Session returns the session record of the request, nil outside the session middleware.
func Session(c *fiber.Ctx) *session.Record {
	rec, _ := c.Locals(LocalsSession).(*session.Record)
	return rec
}

// CurrentUser returns the user resolved for this request, nil when anonymous.
func CurrentUser(c *fiber.Ctx) *identity.User {
	u, _ := c.Locals(LocalsUser).(*identity.User)
	return u
}

// SetSessionCookie writes the session cookie for id.
func SetSessionCookie(c *fiber.Ctx, env *Env, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     env.Sessions.CookieName(),
		Value:    id,
		Path:     RootPath,
		MaxAge:   int(env.Sessions.Expiration().Seconds()),
		Secure:   !env.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, env *Env) {
	c.Cookie(&fiber.Cookie{
		Name:     env.Sessions.CookieName(),
		Value:    "",
		Path:     RootPath,
		MaxAge:   -1,
		Secure:   !env.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// IdentityContext bounds an identity store call made by a handler with
// Identity.Timeout.
func IdentityContext(c *fiber.Ctx, env *Env) (context.Context, context.CancelFunc) {
	timeout := env.Cfg.Identity.Timeout
	if timeout <= 0 {
		timeout = auth.DefaultResolveTimeout
	}

	return context.WithTimeout(c.UserContext(), timeout)
}

// DestroySession deletes the request's session and detaches it so it is
// not written back after the handler.
func DestroySession(c *fiber.Ctx, env *Env) error {
	rec := Session(c)
	if rec == nil {
		return nil
	}

	c.Locals(LocalsSession, nil)
	c.Locals(LocalsUser, nil)

	return env.Sessions.Destroy(c.UserContext(), rec.ID)
}

// LogIn verifies cred and, on success, rotates the session id and binds the
// user to it. The error is set only for store failures.
func LogIn(c *fiber.Ctx, env *Env, cred auth.Credential) (auth.Outcome, error) {
	outcome, err := env.Verifier.Verify(c.UserContext(), cred.Email, cred.Password)
	auth.ObserveLogin(env.Verifier.Strategy(), outcome)

	if err != nil {
		log.Error().Err(err).Str("strategy", env.Verifier.Strategy()).Msg("credential verification failed")
		return outcome, err
	}

	if !outcome.OK() {
		log.Info().Str("strategy", env.Verifier.Strategy()).Str("outcome", outcome.Reason).Msg("login rejected")
		return outcome, nil
	}

	rec := Session(c)
	if rec == nil {
		return outcome, session.ErrNilRecord
	}

	if err = env.Sessions.Regenerate(c.UserContext(), rec); err != nil {
		return outcome, err
	}

	rec.SetIdentityToken(string(env.Serializer.Serialize(outcome.User)))
	c.Locals(LocalsUser, outcome.User)

	log.Info().
		Str("strategy", env.Verifier.Strategy()).
		Str("user_id", outcome.User.ID).
		Str("session_id", session.ShortID(rec.ID)).
		Msg("login succeeded")

	return outcome, nil
}

// ViewData adds the page title and navigation to data.
func ViewData(c *fiber.Ctx, env *Env, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	data["Title"] = env.Cfg.Title
	data["Nav"] = navigation.For(env.Cfg.Title, c.Path(), CurrentUser(c) != nil)

	return data
}
