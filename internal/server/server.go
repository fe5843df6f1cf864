package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/server/middleware"
	"github.com/agentstation/stargazer/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	limiter   *middleware.RateLimiter
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	if app == nil {
		return nil, &errors.ConfigError{Component: "server", Message: "application is required"}
	}
	if cfg.RateLimit < 0 {
		return nil, &errors.ConfigError{Component: "server", Message: "rate limit must not be negative"}
	}
	if cfg.PathPrefix != "" && !strings.HasPrefix(cfg.PathPrefix, "/") {
		cfg.PathPrefix = "/" + cfg.PathPrefix
	}
	cfg.PathPrefix = strings.TrimSuffix(cfg.PathPrefix, "/")

	logger := app.Logger()
	logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Int("rate_limit", cfg.RateLimit).
		Bool("cors", cfg.CORSEnabled).
		Msg("Creating new server instance")

	s := &Server{
		app:       app,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server bound to the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Shutdown releases server resources. The caller shuts down the http.Server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().
		Dur("uptime", time.Since(s.startTime)).
		Msg("Shutting down server")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
