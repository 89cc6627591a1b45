package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	"github.com/trezcool/phronisis/core/review"
	"github.com/trezcool/phronisis/core/user"
)

type (
	// HTTPMetricsRecorder observes served requests; nil disables recording.
	HTTPMetricsRecorder interface {
		RecordHTTPRequest(path, method string, statusCode int, duration time.Duration)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Metrics    HTTPMetricsRecorder

		UserSvc     user.ServiceInterface
		ContentSvc  content.ServiceInterface
		ProgressSvc progress.ServiceInterface
		ArtifactSvc artifact.ServiceInterface
		ReviewSvc   review.ServiceInterface
		EventSvc    event.ServiceInterface
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	if s.deps.Metrics != nil {
		s.app.Use(s.metricsMiddleware)
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerUserAPI(v1, jwt, s.deps)
	registerContentAPI(v1, jwt, s.deps)
	registerProgressAPI(v1, jwt, s.deps)
	registerArtifactAPI(v1, jwt, s.deps)
	registerReviewAPI(v1, jwt, s.deps)
	registerEventAPI(v1, jwt, s.deps)
}

func (s *Server) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err)
		}
		s.deps.Metrics.RecordHTTPRequest(
			ctx.Path(),
			ctx.Request().Method,
			ctx.Response().Status,
			time.Since(start),
		)
		return nil
	}
}

// Start runs the listener; failures land on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errs
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown requests a graceful stop from the main loop.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Phronisis API!")
}
