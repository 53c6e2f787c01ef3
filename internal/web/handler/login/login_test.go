package login

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/web/handler"
	"github.com/passgate/passgate/internal/web/handler/handlertest"
)

func newTestApp(t *testing.T) (*handlertest.Fixture, *handlertest.Client) {
	t.Helper()

	f := handlertest.NewFixture(t)
	app := f.NewApp()

	var s Service
	require.NoError(t, s.Init(app, f.Env))

	app.Get(handler.AuthRequiredPath, func(c *fiber.Ctx) error {
		if u := handler.CurrentUser(c); u != nil {
			return c.SendString("hello " + u.Email)
		}

		return c.SendStatus(fiber.StatusForbidden)
	})

	return f, handlertest.NewClient(t, app)
}

func TestInit_NilEnv(t *testing.T) {
	var s Service
	assert.ErrorIs(t, s.Init(fiber.New(), nil), handler.ErrNilEnv)
	assert.ErrorIs(t, s.Init(nil, &handler.Env{}), handler.ErrNilEnv)
}

func TestGet_RendersForm(t *testing.T) {
	_, client := newTestApp(t)

	resp, body := client.Get(Path)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "login", body)
	assert.NotEmpty(t, client.Cookie("sid"))
}

func TestPost_Flash(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "missing password", form: url.Values{"email": {"alice@example.com"}}, want: MsgMalformed},
		{name: "missing email", form: url.Values{"password": {"x"}}, want: MsgMalformed},
		{name: "not an email", form: url.Values{"email": {"alice"}, "password": {"x"}}, want: MsgMalformed},
		{
			name: "wrong password",
			form: url.Values{"email": {"alice@example.com"}, "password": {"nope"}},
			want: auth.ReasonInvalidCredentials,
		},
		{
			name: "unknown user",
			form: url.Values{"email": {"bob@example.com"}, "password": {handlertest.Password}},
			want: auth.ReasonInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, client := newTestApp(t)
			f.AddUser(t, "alice@example.com")

			resp, _ := client.PostForm(Path, tt.form)
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, Path, resp.Header.Get(fiber.HeaderLocation))

			// the flash is shown once
			_, body := client.Get(Path)
			assert.Equal(t, tt.want, body)

			_, body = client.Get(Path)
			assert.Equal(t, "login", body)
		})
	}
}

func TestPost_StoreUnavailable(t *testing.T) {
	f, client := newTestApp(t)
	f.AddUser(t, "alice@example.com")
	f.Store.Err = errors.New("backend down")

	resp, _ := client.PostForm(Path, url.Values{"email": {"alice@example.com"}, "password": {handlertest.Password}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	f.Store.Err = nil

	_, body := client.Get(Path)
	assert.Equal(t, auth.ReasonStoreUnavailable, body)
}

func TestPost_StalledStore(t *testing.T) {
	f, client := newTestApp(t)
	f.AddUser(t, "alice@example.com")
	f.Store.Stall = true

	start := time.Now()
	resp, _ := client.PostForm(Path, url.Values{"email": {"alice@example.com"}, "password": {handlertest.Password}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get(fiber.HeaderLocation))
	assert.Less(t, time.Since(start), 3*time.Second)

	resp, body := client.PostJSON(CustomPath, `{"email":"alice@example.com","password":"s3cret"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, auth.ReasonStoreUnavailable)

	f.Store.Stall = false

	_, body = client.Get(Path)
	assert.Equal(t, auth.ReasonStoreUnavailable, body)
}

func TestPost_Success(t *testing.T) {
	f, client := newTestApp(t)
	f.AddUser(t, "alice@example.com")

	_, _ = client.Get(Path)
	before := client.Cookie("sid")
	require.NotEmpty(t, before)

	resp, _ := client.PostForm(Path, url.Values{"email": {"Alice@Example.com"}, "password": {handlertest.Password}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.AuthRequiredPath, resp.Header.Get(fiber.HeaderLocation))

	after := client.Cookie("sid")
	assert.NotEqual(t, before, after, "session id must rotate on login")
	assert.False(t, f.Storage.Has(before))

	_, body := client.Get(handler.AuthRequiredPath)
	assert.Equal(t, "hello alice@example.com", body)

	// an authenticated visitor is sent away from the form
	resp, _ = client.Get(Path)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.AuthRequiredPath, resp.Header.Get(fiber.HeaderLocation))
}

func TestPost_OldSessionIDIsAnonymous(t *testing.T) {
	f, client := newTestApp(t)
	f.AddUser(t, "alice@example.com")

	_, _ = client.Get(Path)
	fixated := client.Cookie("sid")

	_, _ = client.PostForm(Path, url.Values{"email": {"alice@example.com"}, "password": {handlertest.Password}})

	client.SetCookie("sid", fixated)

	resp, _ := client.Get(handler.AuthRequiredPath)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCustom(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantMsg    string
	}{
		{name: "malformed", body: `{"email":"alice@example.com"}`, wantStatus: fiber.StatusBadRequest, wantMsg: MsgMalformed},
		{name: "broken json", body: `{`, wantStatus: fiber.StatusBadRequest, wantMsg: MsgMalformed},
		{
			name:       "invalid",
			body:       `{"email":"alice@example.com","password":"nope"}`,
			wantStatus: fiber.StatusUnauthorized,
			wantMsg:    auth.ReasonInvalidCredentials,
		},
		{
			name:       "unavailable",
			body:       `{"email":"alice@example.com","password":"s3cret"}`,
			storeErr:   errors.New("backend down"),
			wantStatus: fiber.StatusServiceUnavailable,
			wantMsg:    auth.ReasonStoreUnavailable,
		},
		{
			name:       "ok",
			body:       `{"email":"alice@example.com","password":"s3cret"}`,
			wantStatus: fiber.StatusOK,
			wantMsg:    msgLoggedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, client := newTestApp(t)
			user := f.AddUser(t, "alice@example.com")
			f.Store.Err = tt.storeErr

			resp, body := client.PostJSON(CustomPath, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var decoded struct {
				Msg  string `json:"msg"`
				User *struct {
					ID       string `json:"id"`
					Email    string `json:"email"`
					Password string `json:"password"`
				} `json:"user"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &decoded))
			assert.Equal(t, tt.wantMsg, decoded.Msg)

			if tt.wantStatus == fiber.StatusOK {
				require.NotNil(t, decoded.User)
				assert.Equal(t, user.ID, decoded.User.ID)
				assert.Empty(t, decoded.User.Password)
			} else {
				assert.Nil(t, decoded.User)
			}
		})
	}
}
