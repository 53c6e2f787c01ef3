// Package session provides the fiber middleware that attaches a session
// record to every request and writes it back before the response is sent.
package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web/handler"
)

// New creates the session middleware.
func New(env *handler.Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		incoming := c.Cookies(env.Sessions.CookieName())

		rec, fresh, err := env.Sessions.ResolveOrCreate(c.UserContext(), incoming)
		if err != nil {
			log.Error().Err(err).Str("session_id", session.ShortID(incoming)).Msg("failed to resolve session")
			return fiber.ErrInternalServerError
		}

		c.Locals(handler.LocalsSession, rec)

		chainErr := c.Next()

		// the handler may have destroyed or rotated the record
		current := handler.Session(c)
		if current == nil {
			if incoming != "" || fresh {
				handler.ClearSessionCookie(c, env)
			}

			return chainErr
		}

		if err = env.Sessions.Persist(c.UserContext(), current); err != nil {
			log.Error().Err(err).Str("session_id", session.ShortID(current.ID)).Msg("failed to persist session")

			if chainErr == nil {
				chainErr = fiber.ErrInternalServerError
			}
		}

		if fresh || current.ID != incoming {
			handler.SetSessionCookie(c, env, current.ID)
		}

		return chainErr
	}
}
