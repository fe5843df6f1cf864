package github

import (
	"github.com/agentstation/utc"
)

// Owner is the account that owns a repository.
type Owner struct {
	Login     string `json:"login" yaml:"login"`
	AvatarURL string `json:"avatar_url" yaml:"avatar_url"`
	HTMLURL   string `json:"html_url" yaml:"html_url"`
}

// Repository is a single repository record as returned by search.
type Repository struct {
	ID              int64    `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	FullName        string   `json:"full_name" yaml:"full_name"`
	Description     *string  `json:"description" yaml:"description"`
	HTMLURL         string   `json:"html_url" yaml:"html_url"`
	StargazersCount int      `json:"stargazers_count" yaml:"stargazers_count"`
	WatchersCount   int      `json:"watchers_count" yaml:"watchers_count"`
	ForksCount      int      `json:"forks_count" yaml:"forks_count"`
	CreatedAt       utc.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       utc.Time `json:"updated_at" yaml:"updated_at"`
	Language        *string  `json:"language" yaml:"language"`
	Owner           Owner    `json:"owner" yaml:"owner"`
}

// SearchResult is one page of repository search results in upstream order.
type SearchResult struct {
	TotalCount        int          `json:"total_count" yaml:"total_count"`
	IncompleteResults bool         `json:"incomplete_results" yaml:"incomplete_results"`
	Items             []Repository `json:"items" yaml:"items"`
}

// SearchParams are the optional repository search parameters. Nil or empty
// fields are not sent upstream.
type SearchParams struct {
	Q       string `json:"q,omitempty" yaml:"q,omitempty"`
	Sort    string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Order   string `json:"order,omitempty" yaml:"order,omitempty"`
	PerPage *int   `json:"per_page,omitempty" yaml:"per_page,omitempty"`
	Page    *int   `json:"page,omitempty" yaml:"page,omitempty"`
}
