package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web/handler"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout destroys the session. The session middleware clears the cookie of
// the detached record.
func (s *Service) Logout(c *fiber.Ctx) error {
	if rec := handler.Session(c); rec != nil {
		if err := handler.DestroySession(c, s.env); err != nil {
			log.Error().Err(err).Str("session_id", session.ShortID(rec.ID)).Msg("failed to delete session")
		}
	}

	return c.Redirect(handler.RootPath)
}
