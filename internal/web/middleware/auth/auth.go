package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web/handler"
)

// Identity resolves the session's identity token and stores the user in
// fiber.Locals for this request. A token that no longer resolves is cleared.
func Identity(env *handler.Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec := handler.Session(c)
		if rec == nil || rec.Anonymous() {
			return c.Next()
		}

		user, ok := env.Serializer.Deserialize(c.UserContext(), auth.IdentityToken(rec.IdentityToken))
		if !ok {
			log.Debug().Str("session_id", session.ShortID(rec.ID)).Msg("clearing unresolvable identity")
			rec.ClearIdentityToken()

			return c.Next()
		}

		c.Locals(handler.LocalsUser, user)

		return c.Next()
	}
}

// RequireAuthenticated redirects anonymous requests to redirect.
func RequireAuthenticated(redirect string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !(auth.Gate{}).IsAuthorized(handler.CurrentUser(c)) {
			return c.Redirect(redirect)
		}

		return c.Next()
	}
}

// RequireOwner allows only the user whose id equals the route parameter
// param. Anonymous and foreign requests get the same 403.
func RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := handler.CurrentUser(c)
		if !auth.OwnerCheck(user, c.Params(param)) {
			ev := log.Warn().Str("path", c.Path())
			if user != nil {
				ev = ev.Str("user_id", user.ID)
			}

			ev.Msg("access to foreign resource denied")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden")
		}

		return c.Next()
	}
}
