// Package application provides the application interface for stargazer commands.
//
// The Application interface defines the contract between the application layer and
// command implementations (CLI commands and the API server), enabling dependency
// injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            svc, err := app.Stars()
//	            if err != nil {
//	                return err
//	            }
//	            starred, err := svc.IsStarred(cmd.Context(), ref, token)
//	            // ...
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    StarsFunc: func() (application.StarService, error) {
//	        return fakeStars, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/internal/metrics"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/starcache"
)

// StarService decides and changes star status for a credential.
type StarService interface {
	IsStarred(ctx context.Context, ref github.RepoRef, token string) (bool, error)
	Star(ctx context.Context, ref github.RepoRef, token string) error
	Unstar(ctx context.Context, ref github.RepoRef, token string) error
}

// SearchService runs validated repository searches.
type SearchService interface {
	Search(ctx context.Context, params github.SearchParams) (*github.SearchResult, error)
}

// Application provides the application interface that commands need.
// The App struct from cmd/stargazer/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Stars returns the star state coordinator, creating it lazily.
	Stars() (StarService, error)

	// Search returns the search orchestrator, creating it lazily.
	Search() (SearchService, error)

	// CacheStats returns a snapshot of the star-status cache counters.
	CacheStats() starcache.Stats

	// Metrics returns the metrics collectors shared by all components.
	Metrics() *metrics.Metrics

	// Token returns the configured default credential, if any.
	Token() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
