package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/stargazer/internal/cmd/output"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/logging"
)

// Execute runs the stargazer CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stargazer",
		Short:   "Caching proxy for GitHub repository search and stars",
		Version: a.version,
		Long: `Stargazer sits between a client application and the GitHub API.

It searches public repositories without forwarding any credential, and
reports or changes the star status of a repository for a user token while
answering repeated status lookups from a bounded, expiring cache.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.stargazer.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("stargazer {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit config file is only known once flags are parsed
	if configFile := mustGetString(cmd, "config"); configFile != "" && configFile != a.config.ConfigFile {
		viper.Set("config", configFile)
		config, err := LoadConfig()
		if err != nil {
			return err
		}
		a.config = config
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(FormatError(err))
		os.Exit(1)
	}
}

// FormatError renders err for the terminal, followed by a hint when the
// error kind has an obvious next step.
func FormatError(err error) string {
	msg := "Error: " + err.Error() + "\n"
	if hint := errorHint(err); hint != "" {
		msg += "Hint: " + hint + "\n"
	}
	return msg
}

func errorHint(err error) string {
	switch {
	case errors.IsUnauthorized(err):
		return "pass --token or set GITHUB_TOKEN to a token allowed to read and change stars"
	case errors.IsRateLimited(err):
		return "GitHub rate limit reached; wait for the window to reset or authenticate"
	case errors.IsNotFound(err):
		return "check the OWNER/REPO spelling and that the repository is visible to the token"
	case errors.IsPreconditionFailed(err):
		return "run 'stargazer star status OWNER/REPO' to see the current state"
	case errors.IsUpstreamUnavailable(err):
		return "GitHub could not be reached; check connectivity and the github_api_url setting"
	case errors.IsInvalidInput(err):
		return "run the command with --help for accepted values"
	default:
		return ""
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
