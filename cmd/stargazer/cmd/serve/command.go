// Package serve provides the serve command, which runs the stargazer API server.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/server"
	"github.com/agentstation/stargazer/pkg/constants"
)

// NewCommand creates the serve command. defaults seeds the flag defaults.
func NewCommand(app application.Application, defaults server.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the REST API",
		Long: `Start the stargazer REST API server.

Endpoints:
  GET    /github/repositories               search (no credential forwarded)
  GET    /github/starred/{owner}/{repo}     star status for the bearer token
  PUT    /github/starred/{owner}/{repo}     star a repository
  DELETE /github/starred/{owner}/{repo}     unstar a repository
  GET    /health, /ready                    liveness and readiness
  GET    /metrics                           Prometheus metrics

Star endpoints require an "Authorization: Bearer <token>" header. The
server drains in-flight requests on SIGINT or SIGTERM.`,
		Example: `  # Start on the default port 3010
  stargazer serve

  # Serve under a prefix for a different frontend origin
  stargazer serve --prefix /api --cors-origins https://app.example.com

  # Disable rate limiting and metrics
  stargazer serve --rate-limit 0 --metrics=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, defaults)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntP("port", "p", defaults.Port, "Server port")
	flags.String("host", defaults.Host, "Bind address")
	flags.String("prefix", defaults.PathPrefix, "API path prefix")
	flags.Bool("cors", defaults.CORSEnabled, "Enable CORS")
	flags.StringSlice("cors-origins", defaults.CORSOrigins, "Allowed CORS origins (comma-separated, * for any)")
	flags.Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	flags.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	flags.Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")
	flags.Bool("metrics", defaults.MetricsEnabled, "Enable the /metrics endpoint")

	return cmd
}

// configFromFlags overlays parsed flags on cfg. The flags are all defined
// in NewCommand, so lookup errors cannot occur.
func configFromFlags(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	flags := cmd.Flags()
	cfg.Port, _ = flags.GetInt("port")
	cfg.Host, _ = flags.GetString("host")
	cfg.PathPrefix, _ = flags.GetString("prefix")
	cfg.CORSEnabled, _ = flags.GetBool("cors")
	cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	cfg.RateLimit, _ = flags.GetInt("rate-limit")
	cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	cfg.WriteTimeout, _ = flags.GetDuration("write-timeout")
	cfg.IdleTimeout, _ = flags.GetDuration("idle-timeout")
	cfg.MetricsEnabled, _ = flags.GetBool("metrics")

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	if cfg.RateLimit < 0 {
		return cfg, fmt.Errorf("rate limit must not be negative: %d", cfg.RateLimit)
	}
	return cfg, nil
}

func run(ctx context.Context, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	logger.Info().
		Str("addr", srv.Addr()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Bool("metrics", cfg.MetricsEnabled).
		Msg("Starting API server")

	if err := listenAndServe(ctx, srv.HTTPServer(), logger, constants.ShutdownTimeout); err != nil {
		return err
	}
	return srv.Shutdown(context.Background())
}

// listenAndServe runs httpServer until ctx is cancelled, then gives
// outstanding requests up to drain to complete.
func listenAndServe(ctx context.Context, httpServer *http.Server, logger *zerolog.Logger, drain time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed to start: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info().Msg("API server stopped gracefully")
		return nil
	}
}
