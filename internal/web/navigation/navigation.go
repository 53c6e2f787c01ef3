// Package navigation builds the link bar shown on every page.
package navigation

// Link is a single entry of the link bar.
type Link struct {
	Title  string
	URL    string
	Method string // POST links are rendered as forms
	Active bool
}

// Context is the navigation state of a page.
type Context struct {
	PageTitle string
	Links     []Link
}

// For returns the links for a page at path. Anonymous visitors get the
// login and sign-up links, authenticated ones the protected page and logout.
func For(pageTitle, path string, authenticated bool) *Context {
	ctx := &Context{PageTitle: pageTitle}

	ctx.add("Home", "/", "", path)

	if authenticated {
		ctx.add("Auth required", "/auth-required", "", path)
		ctx.add("Log out", "/logout", "POST", path)
	} else {
		ctx.add("Log in", "/log-in", "", path)
		ctx.add("Sign up", "/sign-up", "", path)
	}

	return ctx
}

func (c *Context) add(title, url, method, path string) {
	c.Links = append(c.Links, Link{Title: title, URL: url, Method: method, Active: url == path})
}

// IsActive reports whether url is the current page.
func (c *Context) IsActive(url string) bool {
	for _, l := range c.Links {
		if l.URL == url {
			return l.Active
		}
	}

	return false
}
