// Package star provides the star command and its status, add and remove
// subcommands.
package star

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/cmd/emoji"
	"github.com/agentstation/stargazer/internal/cmd/output"
	"github.com/agentstation/stargazer/internal/cmd/table"
	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/github"
)

// Status is the machine-readable result of every star subcommand.
type Status struct {
	Repository string `json:"repository" yaml:"repository"`
	Starred    bool   `json:"starred" yaml:"starred"`
}

// NewCommand creates the star command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "star",
		GroupID: "core",
		Short:   "Show or change the star status of a repository",
		Long: `Show or change whether the authenticated user has starred a repository.

The token is taken from --token, then the github_token setting, then the
GITHUB_TOKEN or GH_TOKEN environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("token", "", "GitHub token (default from GITHUB_TOKEN)")

	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newRemoveCommand(app))

	return cmd
}

func newStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "status OWNER/REPO",
		Short:   "Report whether a repository is starred",
		Example: "  stargazer star status golang/go",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, token, err := prepare(cmd, app, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			starred, err := svc.IsStarred(ctx, ref, token)
			if err != nil {
				return err
			}

			return output.Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()),
				Status{Repository: ref.String(), Starred: starred},
				func(bool) table.Data { return table.StarStatusToTableData(ref, starred) })
		},
	}
}

func newAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "add OWNER/REPO",
		Short:   "Star a repository",
		Example: "  stargazer star add golang/go",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, token, err := prepare(cmd, app, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			if err := svc.Star(ctx, ref, token); err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), app, ref, true)
		},
	}
}

func newRemoveCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "remove OWNER/REPO",
		Aliases: []string{"rm"},
		Short:   "Unstar a repository",
		Example: "  stargazer star remove golang/go",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ref, token, err := prepare(cmd, app, args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			if err := svc.Unstar(ctx, ref, token); err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), app, ref, false)
		},
	}
}

// prepare parses the repository argument and resolves the service and token.
// A missing token is left for the coordinator to reject.
func prepare(cmd *cobra.Command, app application.Application, arg string) (application.StarService, github.RepoRef, string, error) {
	ref, err := github.ParseRepoRef(arg)
	if err != nil {
		return nil, ref, "", err
	}

	svc, err := app.Stars()
	if err != nil {
		return nil, ref, "", err
	}

	token, _ := cmd.Flags().GetString("token")
	if token = strings.TrimSpace(token); token == "" {
		token = app.Token()
	}
	return svc, ref, token, nil
}

func report(w io.Writer, app application.Application, ref github.RepoRef, starred bool) error {
	format := output.DetectFormat(app.OutputFormat())
	if !format.IsTable() {
		return output.Print(w, format, Status{Repository: ref.String(), Starred: starred}, nil)
	}

	if starred {
		_, err := fmt.Fprintf(w, "%s %s Starred %s\n", emoji.Success, emoji.Star, ref)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s Unstarred %s\n", emoji.Success, emoji.NoStar, ref)
	return err
}
