// Package search validates repository search parameters and delegates to the
// upstream gateway. Results are never cached.
package search

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/logging"
)

// Accepted values for sort and order.
var (
	SortValues  = []string{"stars", "forks", "updated"}
	OrderValues = []string{"asc", "desc"}
)

// Searcher performs an upstream repository search.
type Searcher interface {
	Search(ctx context.Context, params github.SearchParams) (*github.SearchResult, error)
}

// Orchestrator validates and forwards search requests.
type Orchestrator struct {
	searcher Searcher
}

// New creates an Orchestrator.
func New(searcher Searcher) *Orchestrator {
	return &Orchestrator{searcher: searcher}
}

// Search validates params and runs the search. Invalid params fail with
// InvalidInput before any upstream call; upstream errors pass through
// unchanged.
func (o *Orchestrator) Search(ctx context.Context, params github.SearchParams) (*github.SearchResult, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	ctx = logging.WithOperation(ctx, "search")
	result, err := o.searcher.Search(ctx, params)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("kind", errors.KindOf(err).String()).Msg("Search failed")
		return nil, err
	}
	return result, nil
}

// Validate checks the optional search parameters.
func Validate(params github.SearchParams) error {
	if params.Sort != "" && !slices.Contains(SortValues, params.Sort) {
		return errors.NewValidationError("sort", params.Sort,
			fmt.Sprintf("must be one of %v", SortValues))
	}
	if params.Order != "" && !slices.Contains(OrderValues, params.Order) {
		return errors.NewValidationError("order", params.Order,
			fmt.Sprintf("must be one of %v", OrderValues))
	}
	if params.PerPage != nil && (*params.PerPage < constants.MinPerPage || *params.PerPage > constants.MaxPerPage) {
		return errors.NewValidationError("per_page", *params.PerPage,
			fmt.Sprintf("must be between %d and %d", constants.MinPerPage, constants.MaxPerPage))
	}
	if params.Page != nil && *params.Page < 1 {
		return errors.NewValidationError("page", *params.Page, "must be at least 1")
	}
	return nil
}

// ParseParams reads q, sort, order, per_page and page from raw query values.
// Numbers that are present but not integers fail with InvalidInput; range
// checks are left to Validate.
func ParseParams(values url.Values) (github.SearchParams, error) {
	params := github.SearchParams{
		Q:     values.Get("q"),
		Sort:  values.Get("sort"),
		Order: values.Get("order"),
	}

	var err error
	if params.PerPage, err = optionalInt(values, "per_page"); err != nil {
		return github.SearchParams{}, err
	}
	if params.Page, err = optionalInt(values, "page"); err != nil {
		return github.SearchParams{}, err
	}
	return params, nil
}

func optionalInt(values url.Values, field string) (*int, error) {
	raw := values.Get(field)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewValidationError(field, raw, "must be an integer")
	}
	return &n, nil
}
