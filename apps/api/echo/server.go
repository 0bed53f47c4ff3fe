package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
		UserSvc        *user.Service
		AssignmentSvc  *assignment.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts    *Options
		app     *echo.Echo
		metrics *metrics
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:    opts,
		app:     echo.New(),
		metrics: newMetrics(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(s.metrics.middleware())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home)
	s.app.GET("/metrics", s.metrics.handler())

	cookieConf := cookieConfig{
		name:       conf.Server.SessionCookie,
		signingKey: []byte(conf.SecretKey),
		maxAge:     conf.Server.SessionMaxAge,
		secure:     !(conf.Debug || conf.TestMode),
	}
	v1 := s.app.Group("/v1", sessionMiddleware(cookieConf, s.opts.UserSvc))
	limiter := newRateLimiter(conf.Server.RateLimit, conf.Server.RateBurst)

	registerUserAPI(v1, limiter.middleware(), s.opts.AssignmentSvc, s.metrics)
	registerAssignmentAPI(v1, s.opts.AssignmentSvc, s.metrics)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Joineazy API!")
}
