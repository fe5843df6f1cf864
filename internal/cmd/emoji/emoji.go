// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by commands that report the outcome of an action.
const (
	// Success marks a completed change, such as a repository being starred.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Star marks a starred repository.
	Star = "★"

	// NoStar marks a repository that is not starred.
	NoStar = "☆"

	// Stop marks a graceful shutdown.
	Stop = "✗"
)
