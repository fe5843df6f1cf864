// Package search provides the search command.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/stargazer/cmd/application"
	"github.com/agentstation/stargazer/internal/cmd/output"
	"github.com/agentstation/stargazer/internal/cmd/table"
	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/search"
)

// NewCommand creates the search command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [query...]",
		GroupID: "core",
		Short:   "Search public repositories",
		Long: `Search public GitHub repositories. No credential is sent upstream.

Query words are joined with spaces and passed through unchanged, so GitHub
qualifiers such as language:go or stars:>100 work as usual.`,
		Example: `  stargazer search cli language:go --sort stars --per-page 10
  stargazer search "topic:http" --order asc -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := paramsFromFlags(cmd, args)

			svc, err := app.Search()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()

			result, err := svc.Search(ctx, params)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if err := output.Print(cmd.OutOrStdout(), format, result, func(wide bool) table.Data {
				return table.RepositoriesToTableData(result.Items, wide)
			}); err != nil {
				return err
			}

			if format.IsTable() {
				suffix := ""
				if result.IncompleteResults {
					suffix = " (incomplete)"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\nShowing %d of %s repositories%s\n",
					len(result.Items), table.Count(result.TotalCount), suffix)
			}
			return nil
		},
	}

	cmd.Flags().String("sort", "", "Sort field: "+strings.Join(search.SortValues, ", "))
	cmd.Flags().String("order", "", "Sort order: "+strings.Join(search.OrderValues, ", "))
	cmd.Flags().Int("per-page", 0, fmt.Sprintf("Results per page (%d-%d)", constants.MinPerPage, constants.MaxPerPage))
	cmd.Flags().Int("page", 0, "Page number (1-based)")

	return cmd
}

// paramsFromFlags builds search parameters. Numeric flags are only set when
// given so that out-of-range values reach validation.
func paramsFromFlags(cmd *cobra.Command, args []string) github.SearchParams {
	flags := cmd.Flags()
	params := github.SearchParams{Q: strings.Join(args, " ")}
	params.Sort, _ = flags.GetString("sort")
	params.Order, _ = flags.GetString("order")

	if flags.Changed("per-page") {
		n, _ := flags.GetInt("per-page")
		params.PerPage = &n
	}
	if flags.Changed("page") {
		n, _ := flags.GetInt("page")
		params.Page = &n
	}
	return params
}
