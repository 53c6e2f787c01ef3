package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/passgate/passgate/internal/config"
	accesslog "github.com/passgate/passgate/internal/logger/adapter/fiber"
	"github.com/passgate/passgate/internal/session"
	"github.com/passgate/passgate/internal/web/handler"
	"github.com/passgate/passgate/internal/web/handler/home"
	"github.com/passgate/passgate/internal/web/handler/login"
	"github.com/passgate/passgate/internal/web/handler/logout"
	"github.com/passgate/passgate/internal/web/handler/protected"
	"github.com/passgate/passgate/internal/web/handler/signup"
	authmw "github.com/passgate/passgate/internal/web/middleware/auth"
	sessionmw "github.com/passgate/passgate/internal/web/middleware/session"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	appName = "passgate"
)

// ErrNilEnv is returned by New for an incomplete handler environment.
var ErrNilEnv = errors.New("web: handler env is incomplete")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address. It blocks until the
// server stops.
func (s *Service) Start(addr string) error {
	s.alive.Store(true)

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Addr returns the listen address for the configured port.
func (s *Service) Addr() string {
	return ":" + strconv.Itoa(s.cfg.Webserver.Port)
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails /checkalive for ShutDownTime seconds so load balancers can
// drain the instance, then stops the server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown && s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service and registers all routes.
func New(env *handler.Env) (*Service, error) {
	if !env.Valid() {
		return nil, ErrNilEnv
	}

	cfg := env.Cfg

	templateEngine := html.NewFileSystem(templateFS(), ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Fields:        accessLogFields,
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	})

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cfg.Webserver.CookieEncryptionKey,
		}))
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	app.Use(sessionmw.New(env), authmw.Identity(env))

	handlers := []handler.Service{
		&home.Service{},
		&login.Service{},
		&signup.Service{},
		&logout.Service{},
		&protected.Service{},
	}

	for _, h := range handlers {
		if err := h.Init(app, env); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// accessLogFields adds the session and user of the request to the access log.
func accessLogFields(c *fiber.Ctx, e *zerolog.Event) {
	if rec := handler.Session(c); rec != nil {
		e.Str("session", session.ShortID(rec.ID))
	}

	if u := handler.CurrentUser(c); u != nil {
		e.Str("user_id", u.ID)
	}
}
