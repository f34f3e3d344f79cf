package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/rsql/pkg/catalog"
	"mercator-hq/rsql/pkg/config"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/telemetry"
	"mercator-hq/rsql/pkg/telemetry/health"
)

// Routes served by the server.
const (
	RouteParse     = "/v1/parse"
	RouteOperators = "/v1/operators"
	RouteHealthz   = "/healthz"
	RouteReadyz    = "/readyz"
	RouteVersion   = "/version"
)

// Server is the HTTP parse service.
type Server struct {
	config    *config.Config
	catalog   *catalog.Catalog
	telemetry *telemetry.Telemetry
	keywords  parser.KeywordMode

	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server parsing with the operators of cat. The
// catalog is registered as a readiness check of tel.
func NewServer(cfg *config.Config, cat *catalog.Catalog, tel *telemetry.Telemetry) (*Server, error) {
	if cfg == nil || cat == nil || tel == nil {
		return nil, errors.New("server: config, catalog and telemetry are required")
	}

	mode, err := parser.ParseKeywordMode(cfg.Parser.Keywords)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	tel.Health().RegisterCheck("catalog", cat.Check)

	return &Server{
		config:       cfg,
		catalog:      cat,
		telemetry:    tel,
		keywords:     mode,
		shutdownChan: make(chan struct{}),
	}, nil
}

// Start listens on the configured address and blocks until ctx is done,
// SIGINT or SIGTERM arrives, Stop is called or serving fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	logger := s.telemetry.Logger()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting rsql server",
			"address", ln.Addr().String(),
			"operators", s.catalog.Registry().Len(),
			"keywords", s.keywords.String(),
		)

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	case <-s.shutdownChan:
		logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down and return.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting at most
// ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		logger := s.telemetry.Logger()
		logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", logger.Err(err))
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		logger.Info("rsql server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server listens on, nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	build := s.telemetry.Build()
	checker := s.telemetry.Health()

	routes := map[string]http.Handler{
		RouteParse:     http.HandlerFunc(s.handleParse),
		RouteOperators: http.HandlerFunc(s.handleOperators),
		RouteHealthz:   checker.LivenessHandler(),
		RouteReadyz:    checker.ReadinessHandler(),
		RouteVersion:   health.VersionHandler(build.Version, build.Commit, build.BuildTime),
	}
	if m := s.config.Telemetry.Metrics; m.Enabled {
		routes[m.Path] = s.telemetry.Metrics().Handler()
	}

	for route, h := range routes {
		mux.Handle(route, s.telemetry.Tracer().Middleware(route, s.instrument(route, h)))
	}

	var handler http.Handler = mux

	handler = s.loggingMiddleware(handler)

	// Request ID before logging so log lines carry it
	handler = requestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = s.recoveryMiddleware(handler)

	return handler
}
