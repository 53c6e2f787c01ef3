// Package handlertest wires a handler.Env over in-memory stores and drives a
// fiber app with a cookie carrying client.
package handlertest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/identity"
	"github.com/passgate/passgate/internal/identity/memstore"
	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/session/sessiontest"
	"github.com/passgate/passgate/internal/web/handler"
	authmw "github.com/passgate/passgate/internal/web/middleware/auth"
	sessionmw "github.com/passgate/passgate/internal/web/middleware/session"
)

// Password is the password of every user created by AddUser.
const Password = "s3cret"

// NoOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil && v != "" {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

// Fixture bundles the environment and its test doubles.
type Fixture struct {
	Env     *handler.Env
	Store   *memstore.Store
	Storage *sessiontest.Storage
}

// NewFixture builds an environment with the local strategy and bcrypt at minimum cost.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	cfg := &config.Config{
		DevMode: true,
		Title:   "passgate",
		Webserver: config.Webserver{
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Hour, CookieName: "sid"},
		},
		Identity: config.Identity{Type: config.IdentityDB, Timeout: time.Second},
		Auth:     config.Auth{Strategy: config.StrategyLocal, Hasher: config.HasherBcrypt, BcryptCost: bcrypt.MinCost},
	}

	store := memstore.New()
	storage := sessiontest.New()

	sessions, err := session.New(session.Config{
		Storage:    storage,
		Expiration: cfg.Webserver.Session.ExpiryTime,
		CookieName: cfg.Webserver.Session.CookieName,
	})
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	verifier, err := auth.NewVerifier(cfg.Auth, store, hasher, cfg.Identity.Timeout)
	require.NoError(t, err)

	serializer, err := auth.NewSerializer(store, cfg.Identity.Timeout)
	require.NoError(t, err)

	return &Fixture{
		Env: &handler.Env{
			Cfg:        cfg,
			Store:      store,
			Sessions:   sessions,
			Flash:      session.NewFlash(sessions),
			Verifier:   verifier,
			Serializer: serializer,
			Hasher:     hasher,
		},
		Store:   store,
		Storage: storage,
	}
}

// AddUser creates a user with Password.
func (f *Fixture) AddUser(t *testing.T, email string) *identity.User {
	t.Helper()

	hash, err := f.Env.Hasher.Hash(Password)
	require.NoError(t, err)

	u, err := f.Store.Create(context.Background(), email, hash)
	require.NoError(t, err)

	return u
}

// NewApp returns an app with the session and identity middleware. views
// defaults to NoOpViews.
func (f *Fixture) NewApp(views ...fiber.Views) *fiber.App {
	var v fiber.Views = NoOpViews{}
	if len(views) > 0 {
		v = views[0]
	}

	app := fiber.New(fiber.Config{Views: v})
	app.Use(sessionmw.New(f.Env), authmw.Identity(f.Env))

	return app
}

// Client sends requests to an app and keeps the session cookie between them.
type Client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

// NewClient creates a client for app.
func NewClient(t *testing.T, app *fiber.App) *Client {
	t.Helper()

	return &Client{t: t, app: app, cookies: map[string]string{}}
}

// Cookie returns the current value of a cookie.
func (c *Client) Cookie(name string) string {
	return c.cookies[name]
}

// SetCookie overrides a cookie for the next requests.
func (c *Client) SetCookie(name, value string) {
	c.cookies[name] = value
}

// Get sends a GET request.
func (c *Client) Get(path string) (*http.Response, string) {
	return c.Do(httptest.NewRequest(fiber.MethodGet, path, nil))
}

// PostForm sends a form encoded POST request.
func (c *Client) PostForm(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return c.Do(req)
}

// PostJSON sends a JSON POST request.
func (c *Client) PostJSON(path, body string) (*http.Response, string) {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Do(req)
}

// Do sends req with the stored cookies and records the cookies of the response.
func (c *Client) Do(req *http.Request) (*http.Response, string) {
	c.t.Helper()

	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.NoError(c.t, resp.Body.Close())

	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}

		c.cookies[ck.Name] = ck.Value
	}

	return resp, string(body)
}
