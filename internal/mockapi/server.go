// Package mockapi is an in-memory SmartHealth backend. It serves the same
// HTTP contract as the real API for local development and tests.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/smarthealth/internal/config"
	"github.com/jwalitptl/smarthealth/internal/middleware"
	"github.com/jwalitptl/smarthealth/pkg/auth"
	"github.com/jwalitptl/smarthealth/pkg/logger"
	"github.com/jwalitptl/smarthealth/pkg/security"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      config.MockConfig
	log      *logger.Logger
	store    *Store
	files    *fileStore
	tokens   auth.JWTService
	hasher   security.PasswordHasher
	auth     *middleware.AuthMiddleware
	registry *prometheus.Registry
	metrics  *routerMetrics
	engine   *gin.Engine
}

type Option func(*Server)

// WithHasher replaces the default bcrypt cost, mostly so tests stay fast
func WithHasher(h security.PasswordHasher) Option {
	return func(s *Server) { s.hasher = h }
}

func NewServer(cfg config.MockConfig, log *logger.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.New().String()
		log.Warn("no jwt secret configured, tokens will not survive a restart")
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		store:    NewStore(),
		files:    newFileStore(),
		tokens:   auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL),
		hasher:   security.NewBcryptHasher(0),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.auth = middleware.NewAuthMiddleware(s.tokens)
	s.metrics = initRouterMetrics(s.registry)

	if err := s.seed(cfg.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed data: %w", err)
	}
	s.setupRouter()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store exposes the backing data for tests and tooling
func (s *Server) Store() *Store {
	return s.store
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("mock api listening", "addr", ln.Addr().String(), "prefix", s.cfg.Prefix)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down mock api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
