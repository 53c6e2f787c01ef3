// Package home serves the landing page with a per session view counter.
package home

import (
	"github.com/gofiber/fiber/v2"

	"github.com/passgate/passgate/internal/web/handler"
)

const viewsKey = "views"

// Service is the home handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init initializes the home handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	app.Get(handler.RootPath, s.Get)

	return nil
}

// Get counts the visit and renders the page.
func (s *Service) Get(c *fiber.Ctx) error {
	views := 1

	if rec := handler.Session(c); rec != nil {
		views = rec.Int(viewsKey) + 1
		rec.Set(viewsKey, views)
	}

	data := fiber.Map{
		"Views": views,
	}

	if u := handler.CurrentUser(c); u != nil {
		data["User"] = u.Public()
	}

	return c.Render("home", handler.ViewData(c, s.env, data), handler.BaseLayout)
}
