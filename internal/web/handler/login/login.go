package login

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// CustomPath is the JSON login endpoint.
	CustomPath = "/custom-login"

	// MsgMalformed is flashed when email or password is missing.
	MsgMalformed = "missing email or password"

	msgLoggedIn = "logged in"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, env *handler.Env) error {
	if app == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})
	app.Post(CustomPath, s.Custom)

	return nil
}

// ParseCredential reads and validates the email and password of a form or
// JSON body.
func ParseCredential(c *fiber.Ctx) (auth.Credential, error) {
	var cred auth.Credential

	if err := c.BodyParser(&cred); err != nil {
		return cred, fmt.Errorf("%w: %w", ErrInvalidFormData, err)
	}

	cred.Normalize()

	if err := cred.Validate(); err != nil {
		return cred, fmt.Errorf("%w: %w", ErrInvalidFormData, err)
	}

	return cred, nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	if handler.CurrentUser(c) != nil {
		return c.Redirect(handler.AuthRequiredPath)
	}

	msg, _ := s.env.Flash.Pop(c.UserContext(), handler.Session(c))

	return c.Render("login", handler.ViewData(c, s.env, fiber.Map{
		"error": msg,
	}), handler.BaseLayout)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	rec := handler.Session(c)

	cred, err := ParseCredential(c)
	if err != nil {
		s.env.Flash.Push(rec, MsgMalformed)
		return c.Redirect(Path)
	}

	outcome, err := handler.LogIn(c, s.env, cred)

	switch {
	case err != nil:
		s.env.Flash.Push(rec, auth.ReasonStoreUnavailable)
		return c.Redirect(Path)
	case !outcome.OK():
		s.env.Flash.Push(rec, outcome.Reason)
		return c.Redirect(Path)
	}

	return c.Redirect(handler.AuthRequiredPath)
}

// Custom is the JSON variant of Post. It answers with a status code instead
// of redirecting.
func (s *Service) Custom(c *fiber.Ctx) error {
	cred, err := ParseCredential(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": MsgMalformed})
	}

	outcome, err := handler.LogIn(c, s.env, cred)

	switch {
	case err != nil:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"msg": auth.ReasonStoreUnavailable})
	case !outcome.OK():
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": outcome.Reason})
	}

	return c.JSON(fiber.Map{
		"msg":  msgLoggedIn,
		"user": outcome.User.Public(),
	})
}
