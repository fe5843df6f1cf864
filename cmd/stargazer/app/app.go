// Package app provides the application context and dependency management
// for the stargazer CLI. It centralizes configuration, logging and the
// lazily built service graph shared by the CLI commands and the API server.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/metrics"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/search"
	"github.com/agentstation/stargazer/pkg/starcache"
	"github.com/agentstation/stargazer/pkg/stars"
)

// App represents the stargazer application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	metrics *metrics.Metrics

	// Services (lazy-initialized, singleton)
	mu       sync.Mutex
	gateway  github.Gateway
	cache    *starcache.Cache
	stars    *stars.Coordinator
	searcher *search.Orchestrator
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with loaded configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		metrics: metrics.New(),
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	// Built after options so an injected config drives the logger too
	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Token returns the credential resolved from configuration, if any.
func (a *App) Token() string {
	return a.config.GitHubToken
}

// Metrics returns the metrics collectors.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Stars returns the star state coordinator, creating it lazily.
func (a *App) Stars() (application.StarService, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return a.stars, nil
}

// Search returns the search orchestrator, creating it lazily.
func (a *App) Search() (application.SearchService, error) {
	if err := a.init(); err != nil {
		return nil, err
	}
	return a.searcher, nil
}

// CacheStats returns a snapshot of the star cache counters. It is zero
// until the services are built.
func (a *App) CacheStats() starcache.Stats {
	a.mu.Lock()
	cache := a.cache
	a.mu.Unlock()

	if cache == nil {
		return starcache.Stats{}
	}
	return cache.Stats()
}

// init builds the gateway, cache and services once.
func (a *App) init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stars != nil {
		return nil
	}

	if a.gateway == nil {
		a.gateway = a.metrics.InstrumentGateway(github.NewClient(a.config.GitHub()))
	}

	cache, err := starcache.New(
		starcache.WithCapacity(a.config.StarCacheCapacity),
		starcache.WithTTL(a.config.StarCacheTTL),
	)
	if err != nil {
		return errors.WrapResource("create", "star cache", "", err)
	}
	a.metrics.RegisterCache(cache.Stats)

	a.cache = cache
	a.stars = stars.New(a.gateway, cache)
	a.searcher = search.New(a.gateway)

	a.logger.Debug().
		Str("api_url", a.config.GitHubAPIURL).
		Int("cache_capacity", a.config.StarCacheCapacity).
		Dur("cache_ttl", a.config.StarCacheTTL).
		Msg("Services initialized")

	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithGateway sets the upstream gateway (useful for testing). It is still
// wrapped with metrics instrumentation.
func WithGateway(gw github.Gateway) Option {
	return func(a *App) error {
		a.gateway = a.metrics.InstrumentGateway(gw)
		return nil
	}
}
