// Package constants provides shared constants used throughout the stargazer codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the ceiling for a single upstream API call
	DefaultHTTPTimeout = 5 * time.Second

	// DefaultMaxRedirects is the number of redirect hops an upstream call may follow
	DefaultMaxRedirects = 5

	// ShutdownTimeout is how long the API server drains connections on shutdown
	ShutdownTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 1 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Star cache constants
const (
	// StarCacheTTL is how long a star-status answer is trusted
	StarCacheTTL = 1 * time.Hour

	// StarCacheCapacity is the default number of star-status entries kept
	StarCacheCapacity = 100
)

// Search constants
const (
	// MinPerPage is the smallest accepted per_page value
	MinPerPage = 1

	// MaxPerPage is the largest accepted per_page value
	MaxPerPage = 100

	// MaxNameLength is the longest accepted owner or repository name
	MaxNameLength = 100
)

// Rate limiting constants
const (
	// DefaultRateLimit is the default requests per minute per client IP
	DefaultRateLimit = 100

	// RateLimitWindow is the window the per-IP budget applies to
	RateLimitWindow = 1 * time.Minute

	// RateLimitVisitorTTL is how long an idle visitor is remembered
	RateLimitVisitorTTL = 10 * time.Minute

	// RateLimitCleanupInterval is how often idle visitors are dropped
	RateLimitCleanupInterval = 5 * time.Minute
)

// Upstream API constants
const (
	// GitHubAPIURL is the default base URL of the upstream API
	GitHubAPIURL = "https://api.github.com"

	// GitHubMediaType is sent in the Accept header of every upstream call
	GitHubMediaType = "application/vnd.github+json"

	// GitHubAPIVersion is sent in the X-GitHub-Api-Version header
	GitHubAPIVersion = "2022-11-28"

	// DefaultUserAgent identifies this service to the upstream API
	DefaultUserAgent = "stargazer"
)

// Server defaults
const (
	// DefaultHost is the default bind address for the API server
	DefaultHost = "localhost"

	// DefaultPort is the default port for the API server
	DefaultPort = 3010

	// DefaultCORSOrigin is the frontend allowed by default
	DefaultCORSOrigin = "http://localhost:3000"
)
