package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group.
	RouterRootPath = ""

	// LoginPath is the login page, also the redirect target of gated pages.
	LoginPath = "/log-in"

	// AuthRequiredPath is where a successful login lands.
	AuthRequiredPath = "/auth-required"

	// ErrNilEnvFatalLogMsg is used if app or env is nil or incomplete.
	ErrNilEnvFatalLogMsg = "app or env is nil"
)

// Keys of the request scoped values in fiber.Locals.
const (
	LocalsSession = "session"
	LocalsUser    = "CurrentUser"
)
