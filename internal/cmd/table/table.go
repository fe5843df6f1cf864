// Package table converts domain values into rows for tabular CLI output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/utc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentstation/stargazer/internal/utils/ptr"
	"github.com/agentstation/stargazer/pkg/github"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

const maxDescription = 60

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// Title turns a snake_case key into a column header.
func Title(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// Count formats n with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// RepositoriesToTableData converts search results to table format. Wide
// output adds watchers, creation date and the repository URL.
func RepositoriesToTableData(repos []github.Repository, wide bool) Data {
	keys := []string{"full_name", "stars", "forks", "language", "updated", "description"}
	align := []Align{AlignLeft, AlignRight, AlignRight, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		keys = append(keys, "watchers", "created", "url")
		align = append(align, AlignRight, AlignLeft, AlignLeft)
	}

	headers := make([]string, len(keys))
	for i, key := range keys {
		headers[i] = Title(key)
	}

	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		row := []string{
			repo.FullName,
			Count(repo.StargazersCount),
			Count(repo.ForksCount),
			orDash(repo.Language),
			date(repo.UpdatedAt),
			truncate(orDash(repo.Description), maxDescription),
		}
		if wide {
			row = append(row,
				Count(repo.WatchersCount),
				date(repo.CreatedAt),
				repo.HTMLURL,
			)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// StarStatusToTableData renders the star status of a single repository.
func StarStatusToTableData(ref github.RepoRef, starred bool) Data {
	return Data{
		Headers: []string{Title("repository"), Title("starred")},
		Rows:    [][]string{{ref.String(), strconv.FormatBool(starred)}},
	}
}

func orDash(s *string) string {
	if v := ptr.Deref(s, ""); v != "" {
		return v
	}
	return "-"
}

func date(t utc.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
