package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/stargazer/pkg/constants"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum level written: trace, debug, info, warn, error or off
	Level string

	// Format is json, console, or auto (console on a terminal, json otherwise)
	Format string

	// Output is stderr, stdout, discard, or a file path opened for append
	Output string

	// TimeFormat is kitchen, rfc3339 or a Go time layout. Console only.
	TimeFormat string

	// NoColor disables color output in console mode
	NoColor bool

	// AddCaller includes file:line in log output
	AddCaller bool
}

// DefaultConfig returns the settings used until the CLI has parsed its flags.
// LOG_LEVEL, LOG_FORMAT and NO_COLOR are honored so early lines follow them.
func DefaultConfig() *Config {
	cfg := &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// NewLoggerFromConfig creates a new logger from configuration. A nil cfg
// means DefaultConfig.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctx := zerolog.New(newWriter(cfg)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp()
	if cfg.AddCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// newWriter resolves the destination and wraps it in a console writer when
// the format asks for one.
func newWriter(cfg *Config) io.Writer {
	out := openOutput(cfg.Output)

	switch strings.ToLower(cfg.Format) {
	case "json":
		return out
	case "console", "pretty":
	default:
		if !isTerminal(out) {
			return out
		}
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeLayout(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// openOutput maps an output name to a writer. A file that cannot be opened
// falls back to stderr.
func openOutput(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return file
}

// parseLevel accepts zerolog level names plus a few aliases. Anything
// unrecognized is info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}

	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

func timeLayout(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}
