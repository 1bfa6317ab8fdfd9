// Package api serves the sys query operations as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/sysmod"
)

// HealthPath is never authenticated or logged.
const HealthPath = "/healthz"

// Config holds server configuration
type Config struct {
	// Address is the server listen address (e.g., "localhost:8080")
	Address string

	// JWTSecret enables bearer token auth when non-empty
	JWTSecret string

	// Timeouts
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// Connection limits
	MaxHeaderBytes int
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		Address:           "localhost:8080",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Server is the HTTP query surface over an Engine
type Server struct {
	config     Config
	handler    http.Handler
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a server. Nothing listens until ListenAndServe.
func New(engine *sysmod.Engine, config Config, logger *zap.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := NewRouter(engine, config.JWTSecret, logger)
	return &Server{
		config:  config,
		handler: handler,
		httpServer: &http.Server{
			Addr:              config.Address,
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			MaxHeaderBytes:    config.MaxHeaderBytes,
		},
		logger: logger,
	}, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// NewRouter builds the chi router for engine. A non-empty jwtSecret puts
// every route except HealthPath behind bearer auth.
func NewRouter(engine *sysmod.Engine, jwtSecret string, logger *zap.Logger) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(Logging(logger, HealthPath))
	r.Use(Recovery(logger))
	if jwtSecret != "" {
		r.Use(Auth(NewAuthService(jwtSecret, 0), HealthPath))
	}

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Get(HealthPath, h.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/doc", h.doc)
		r.Get("/state_doc", h.stateDoc)
		r.Get("/functions", h.listFunctions)
		r.Get("/state_functions", h.listStateFunctions)
		r.Get("/modules", h.listModules)
		r.Get("/state_modules", h.listStateModules)
		r.Get("/argspec", h.argspec)
		r.Post("/reload_modules", h.reloadModules)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("api server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("auth", s.config.JWTSecret != ""))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("api server shutting down", zap.Duration("timeout", timeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
