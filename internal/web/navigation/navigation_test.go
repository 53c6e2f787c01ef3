package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func titles(ctx *Context) []string {
	out := make([]string, 0, len(ctx.Links))
	for _, l := range ctx.Links {
		out = append(out, l.Title)
	}

	return out
}

func TestFor(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		want          []string
	}{
		{name: "anonymous", want: []string{"Home", "Log in", "Sign up"}},
		{name: "authenticated", authenticated: true, want: []string{"Home", "Auth required", "Log out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := For("passgate", "/", tt.authenticated)

			assert.Equal(t, "passgate", ctx.PageTitle)
			assert.Equal(t, tt.want, titles(ctx))
		})
	}
}

func TestContext_IsActive(t *testing.T) {
	ctx := For("passgate", "/log-in", false)

	assert.True(t, ctx.IsActive("/log-in"))
	assert.False(t, ctx.IsActive("/"))
	assert.False(t, ctx.IsActive("/unknown"))
}

func TestLogoutIsPost(t *testing.T) {
	ctx := For("passgate", "/", true)

	last := ctx.Links[len(ctx.Links)-1]
	assert.Equal(t, "/logout", last.URL)
	assert.Equal(t, "POST", last.Method)
}
