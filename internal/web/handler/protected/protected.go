// Package protected serves the gated routes: the auth-required page and the
// owner only user resource.
package protected

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/passgate/passgate/internal/web/handler"
	authmw "github.com/passgate/passgate/internal/web/middleware/auth"
)

const (
	// Path is the gated page.
	Path = handler.AuthRequiredPath

	// UserPath is the owner only user resource.
	UserPath = "/users/:id"

	userIDParam = "id"
)

// Service is the protected routes handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init initializes the protected routes.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	app.Get(Path, authmw.RequireAuthenticated(handler.LoginPath), s.Page)
	app.Get(UserPath, authmw.RequireOwner(userIDParam), s.User)

	return nil
}

// sessionView is what the page shows of the session record.
type sessionView struct {
	Identity   string         `json:"identity"`
	Attributes map[string]any `json:"attributes"`
	CreatedAt  string         `json:"created_at"`
}

// Page renders the session and the resolved user.
func (s *Service) Page(c *fiber.Ctx) error {
	user := handler.CurrentUser(c).Public()

	var view sessionView
	if rec := handler.Session(c); rec != nil {
		view = sessionView{
			Identity:   rec.IdentityToken,
			Attributes: rec.Attributes,
			CreatedAt:  rec.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	sessionJSON, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}

	userJSON, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}

	return c.Render("protected", handler.ViewData(c, s.env, fiber.Map{
		"User":    user,
		"Session": string(sessionJSON),
		"UserRaw": string(userJSON),
	}), handler.BaseLayout)
}

// User returns the current user, which the gate guarantees is the owner.
func (s *Service) User(c *fiber.Ctx) error {
	return c.JSON(handler.CurrentUser(c).Public())
}
