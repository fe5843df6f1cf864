package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/stargazer/internal/config"
	"github.com/agentstation/stargazer/internal/server"
	"github.com/agentstation/stargazer/internal/transport"
	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/github"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Upstream API
	GitHubAPIURL string
	GitHubToken  string
	UserAgent    string
	HTTPTimeout  time.Duration
	MaxRedirects int

	// Star cache
	StarCacheTTL      time.Duration
	StarCacheCapacity int

	// API server
	HTTPHost string
	HTTPPort int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// levelFromFlag is set when LogLevel came from --log-level
	levelFromFlag bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.stargazer.yaml or ./.stargazer.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// .env must be loaded before viper reads the environment
	loadEnvFiles()

	v := viper.GetViper()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".stargazer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &errors.ConfigError{Component: "config file", Message: "unreadable", Err: err}
		}
	}

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		GitHubAPIURL: v.GetString("github_api_url"),
		GitHubToken:  config.ResolveToken(""),
		UserAgent:    v.GetString("user_agent"),
		HTTPTimeout:  v.GetDuration("http_timeout"),
		MaxRedirects: v.GetInt("max_redirects"),

		StarCacheTTL:      v.GetDuration("star_cache_ttl"),
		StarCacheCapacity: v.GetInt("star_cache_capacity"),

		HTTPHost: v.GetString("http_host"),
		HTTPPort: v.GetInt("http_port"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github_api_url", constants.GitHubAPIURL)
	v.SetDefault("user_agent", constants.DefaultUserAgent)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("max_redirects", constants.DefaultMaxRedirects)
	v.SetDefault("star_cache_ttl", constants.StarCacheTTL)
	v.SetDefault("star_cache_capacity", constants.StarCacheCapacity)
	v.SetDefault("http_host", constants.DefaultHost)
	v.SetDefault("http_port", constants.DefaultPort)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate rejects settings the components would refuse at construction.
func (c *Config) Validate() error {
	switch {
	case c.HTTPTimeout <= 0:
		return &errors.ConfigError{Component: "http_timeout", Message: "must be positive"}
	case c.MaxRedirects < 0:
		return &errors.ConfigError{Component: "max_redirects", Message: "must not be negative"}
	case c.StarCacheTTL <= 0:
		return &errors.ConfigError{Component: "star_cache_ttl", Message: "must be positive"}
	case c.StarCacheCapacity <= 0:
		return &errors.ConfigError{Component: "star_cache_capacity", Message: "must be positive"}
	case c.HTTPPort < 1 || c.HTTPPort > 65535:
		return &errors.ConfigError{Component: "http_port", Message: "must be between 1 and 65535"}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		c.levelFromFlag = true
	}
}

// GitHub returns the gateway configuration.
func (c *Config) GitHub() github.Config {
	return github.Config{
		BaseURL:   c.GitHubAPIURL,
		UserAgent: c.UserAgent,
		Transport: transport.Config{
			Timeout:      c.HTTPTimeout,
			MaxRedirects: c.MaxRedirects,
		},
	}
}

// Server returns the API server configuration seeded with the configured
// bind address. Flags on the serve command override it.
func (c *Config) Server() server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = c.HTTPHost
	cfg.Port = c.HTTPPort
	return cfg
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so .env.local
// is loaded first to take precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
