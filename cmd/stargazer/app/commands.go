package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/stargazer/cmd/stargazer/cmd/search"
	"github.com/agentstation/stargazer/cmd/stargazer/cmd/serve"
	"github.com/agentstation/stargazer/cmd/stargazer/cmd/star"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewSearchCommand())
	rootCmd.AddCommand(a.NewStarCommand())
	rootCmd.AddCommand(a.NewServeCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewSearchCommand creates the search command with app dependencies.
func (a *App) NewSearchCommand() *cobra.Command {
	return search.NewCommand(a)
}

// NewStarCommand creates the star command with app dependencies.
func (a *App) NewStarCommand() *cobra.Command {
	return star.NewCommand(a)
}

// NewServeCommand creates the serve command seeded with the configured
// server address.
func (a *App) NewServeCommand() *cobra.Command {
	return serve.NewCommand(a, a.config.Server())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("stargazer %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
