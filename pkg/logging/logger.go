// Package logging provides structured logging for the stargazer system using zerolog.
// Loggers write human-readable console output on a terminal and JSON
// everywhere else.
//
// Request-scoped loggers travel in the context:
//
//	ctx = logging.WithRepository(ctx, "acme", "widgets")
//	ctx = logging.WithCredential(ctx, logging.Fingerprint(token))
//	logging.FromContext(ctx).Info().Bool("starred", true).Msg("Star state changed")
//
// Raw tokens are never logged. Fingerprint gives a short stable digest that
// lets log lines for one credential be correlated.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when no logger travels in the context.
var defaultLogger = NewLoggerFromConfig(DefaultConfig())

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
