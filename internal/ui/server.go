// Package ui serves the movie dashboard over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/dataset"
	dashboardFeature "github.com/leapstack-labs/moviescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/moviescope/internal/ui/notifier"
	"github.com/leapstack-labs/moviescope/internal/ui/resources"
	"github.com/leapstack-labs/moviescope/internal/ui/router"
)

// DefaultShutdownTimeout bounds graceful shutdown when Config leaves it unset.
const DefaultShutdownTimeout = 5 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	cache           *dataset.Cache
	dataPath        string
	sessionStore    *sessions.CookieStore
	port            int
	options         dashview.Options
	dev             bool
	shutdownTimeout time.Duration
	logger          *slog.Logger
	notifier        *notifier.Notifier
	watchDir        string
	onListen        func(addr string)
}

// Config holds configuration for the UI server.
type Config struct {
	Cache           *dataset.Cache
	DataPath        string
	Port            int
	Options         dashview.Options
	Dev             bool
	SessionSecret   string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	// WatchDir is watched for asset edits in dev mode. It defaults to the
	// static directory of the source tree.
	WatchDir string
	// OnListen, when set, is called with the bound address once the server
	// accepts connections.
	OnListen func(addr string)
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	watchDir := cfg.WatchDir
	if watchDir == "" {
		watchDir = resources.SourceDir()
	}

	return &Server{
		cache:           cfg.Cache,
		dataPath:        cfg.DataPath,
		sessionStore:    sessionStore,
		port:            cfg.Port,
		options:         cfg.Options,
		dev:             cfg.Dev,
		shutdownTimeout: timeout,
		logger:          logger,
		notifier:        notifier.New(),
		watchDir:        watchDir,
		onListen:        cfg.OnListen,
	}
}

// Handler builds the router with middleware and every route mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Source:       dashboardFeature.CacheSource(s.cache, s.dataPath),
		SessionStore: s.sessionStore,
		Options:      s.options,
		Notifier:     s.notifier,
		Logger:       s.logger,
		IsDev:        s.dev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	addr := ln.Addr().String()
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		addr = fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	s.logger.Info("starting UI server", "addr", addr, "dev", s.dev)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Warm the cache so the first page view does not pay for the load.
	eg.Go(func() error {
		if _, err := s.cache.Get(egctx, s.dataPath); err != nil {
			s.logger.Warn("dataset not loaded", "error", err)
		}
		return nil
	})

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if s.dev {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	if s.onListen != nil {
		s.onListen(addr)
	}

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether hot reload routes are mounted.
func (s *Server) IsDev() bool {
	return s.dev
}

// Notifier returns the notifier that reloads connected browser tabs.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
