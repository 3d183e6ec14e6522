// Package preview serves a generated site locally and rebuilds it when the
// content or templates change.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/eringen/pubgen"
	"github.com/eringen/pubgen/internal/logfields"
)

// DefaultAddr is the listen address used when Options.Addr is empty.
const DefaultAddr = ":3000"

// Options configures a Server.
type Options struct {
	Addr string
	// Dir is the on-disk directory the site fs is rooted at. Source dirs
	// below it are watched; leave empty to disable watching.
	Dir string
	// Registry receives request metrics and is served at /metrics.
	Registry *prometheus.Registry
	// Debounce is the quiet period before a rebuild (default 300ms).
	Debounce time.Duration
}

// Status is the outcome of the most recent build.
type Status struct {
	BuildID    string    `json:"buildId,omitempty"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	Posts      int       `json:"posts"`
	Pages      int       `json:"pages"`
	FinishedAt time.Time `json:"finishedAt"`
	DurationMS int64     `json:"durationMs"`
}

// Server is a preview HTTP server bound to one Site.
type Server struct {
	Echo *echo.Echo

	site   *pubgen.Site
	opts   Options
	logger *slog.Logger
	output afero.Fs

	mu     sync.RWMutex
	status Status
}

// New creates a preview server for site. Routes are registered immediately so
// the handler can be exercised without listening.
func New(site *pubgen.Site, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	s := &Server{
		Echo:   echo.New(),
		site:   site,
		opts:   opts,
		logger: site.Logger().With(slog.String("component", "preview")),
		output: afero.NewBasePathFs(site.Fs, site.Config.OutputDir),
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	e := s.Echo
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pubgen",
		Subsystem:  "preview",
		Registerer: s.opts.Registry,
	}))
	e.Use(noCache)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:       ".",
		Index:      "index.html",
		Filesystem: http.FS(afero.NewIOFS(s.output)),
	}))
}

func (s *Server) setupRoutes() {
	s.Echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.opts.Registry,
	}))
	s.Echo.GET("/_status", s.handleStatus)
}

// noCache keeps browsers from holding on to pages between rebuilds.
func noCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Status())
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		if page, readErr := afero.ReadFile(s.output, pubgen.NotFoundFile); readErr == nil {
			_ = c.HTMLBlob(http.StatusNotFound, page)
			return
		}
	}
	if he == nil || he.Code >= 500 {
		s.logger.Error("Server error", slog.String("uri", c.Request().RequestURI), logfields.Error(err))
	}
	s.Echo.DefaultHTTPErrorHandler(err, c)
}

// Status returns the outcome of the most recent build.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Rebuild runs a full build and records its outcome.
func (s *Server) Rebuild(ctx context.Context) error {
	report, err := s.site.Build(ctx)
	st := Status{OK: err == nil, FinishedAt: time.Now()}
	if report != nil {
		st.BuildID = report.BuildID
		st.Posts = report.Posts
		st.Pages = len(report.Written)
		st.DurationMS = report.Duration.Milliseconds()
	}
	if err != nil {
		st.Error = err.Error()
	}
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	return err
}

// Run builds the site, serves it, and rebuilds on source changes until ctx
// is cancelled. A failing build is logged and served as-is.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		s.logger.Error("Initial build failed", logfields.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", slog.String("addr", s.opts.Addr))
		if err := s.Echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var events <-chan string
	if s.opts.Dir != "" {
		w, err := newWatcher(s.logger, s.watchDirs()...)
		if err != nil {
			return err
		}
		defer w.Close()
		events = w.changes(ctx)
	}

	rb := newRebuilder(s.opts.Debounce)
	go rb.run(ctx, func(ctx context.Context) {
		s.logger.Info("Change detected; rebuilding site")
		if err := s.Rebuild(ctx); err != nil {
			s.logger.Warn("Rebuild failed", logfields.Error(err))
		}
	})

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case err := <-errCh:
			return err
		case p, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.logger.Debug("File change detected", logfields.Path(p))
			rb.trigger()
		}
	}
}

func (s *Server) shutdown() error {
	s.logger.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Echo.Shutdown(ctx)
}
