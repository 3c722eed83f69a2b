package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

type (
	// Deps regroups the server's dependencies, injected by the composition root.
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Verifier   core.IdentityVerifier
		UserSvc    *user.Service
		TuitionSvc *tuition.Service
		AppSvc     *application.Service
		PaymentSvc *payment.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		addr     string
		deps     *Deps
		app      *echo.Echo
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(addr string, deps *Deps) *Server {
	s := &Server{
		addr:     addr,
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	auth := authMiddleware(s.deps.Verifier)
	maybeAuth := maybeAuthMiddleware(s.deps.Verifier)

	registerUserAPI(v1, auth, s.deps.UserSvc, s.deps.Validate)
	registerTuitionAPI(v1, auth, maybeAuth, s.deps.TuitionSvc, s.deps.UserSvc, s.deps.Validate)
	registerApplicationAPI(v1, auth, s.deps.AppSvc, s.deps.UserSvc, s.deps.Validate)
	registerPaymentAPI(v1, auth, s.deps.PaymentSvc, s.deps.UserSvc, s.deps.Validate)
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown is used to gracefully shutdown the Server when an integrity
// issue is identified.
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
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
