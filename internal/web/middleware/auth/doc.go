// Package auth provides the identity and gate middleware for the web application.
//
// Identity runs after the session middleware. It resolves the identity token
// of the session to a user and adds the user to fiber.Locals, where handlers
// and templates read it through handler.CurrentUser. The user is never
// written back to the session record.
//
// RequireAuthenticated protects pages: anonymous requests are redirected to
// the login page. RequireOwner protects per user resources and answers 403
// for anonymous and foreign requests alike.
//
// Usage:
//
//	app.Use(sessionmw.New(env), authmw.Identity(env))
//	app.Get("/auth-required", authmw.RequireAuthenticated(handler.LoginPath), page)
//	app.Get("/users/:id", authmw.RequireOwner("id"), resource)
package auth
