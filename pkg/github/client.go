// Package github is the gateway to the GitHub REST API. It issues repository
// search and star-status calls and maps upstream failures onto the local
// error kinds. It is stateless and never retries.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agentstation/stargazer/internal/transport"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/logging"
)

// Gateway is the set of upstream calls.
type Gateway interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	CheckStar(ctx context.Context, ref RepoRef, token string) (bool, error)
	AddStar(ctx context.Context, ref RepoRef, token string) error
	RemoveStar(ctx context.Context, ref RepoRef, token string) error
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	UserAgent string
	Transport transport.Config
}

// Client implements Gateway over HTTP.
type Client struct {
	public   *transport.Client
	authed   *transport.Client
	requests *transport.RequestBuilder
}

var _ Gateway = (*Client)(nil)

// NewClient creates a new GitHub client.
func NewClient(cfg Config) *Client {
	return &Client{
		public:   transport.New(&transport.NoAuth{}, cfg.Transport),
		authed:   transport.New(&transport.BearerAuth{}, cfg.Transport),
		requests: transport.NewRequestBuilder(cfg.BaseURL, cfg.UserAgent),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.requests.BaseURL()
}

// Search performs a repository search. The caller's credential is never
// attached to this call.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	const endpoint = "/search/repositories"

	req, err := c.requests.Build(ctx, http.MethodGet, endpoint, searchQuery(params))
	if err != nil {
		return nil, err
	}

	resp, err := c.public.Do(ctx, req, "")
	if err != nil {
		return nil, errors.WrapTransport(OpSearch.String(), err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, responseError(OpSearch, endpoint, resp)
	}

	var result SearchResult
	if err := transport.DecodeResponse(resp, &result); err != nil {
		return nil, errors.WrapTransport(OpSearch.String(), err)
	}
	if result.Items == nil {
		result.Items = []Repository{}
	}

	logging.FromContext(ctx).Debug().
		Str("query", params.Q).
		Int("total_count", result.TotalCount).
		Int("items", len(result.Items)).
		Msg("Repository search completed")

	return &result, nil
}

// CheckStar reports whether the credential's user has starred ref. A 404 is
// the upstream's way of saying "not starred" and is not an error.
func (c *Client) CheckStar(ctx context.Context, ref RepoRef, token string) (bool, error) {
	resp, endpoint, err := c.starCall(ctx, OpCheckStar, http.MethodGet, ref, token)
	if err != nil {
		return false, err
	}

	switch {
	case isSuccess(resp.StatusCode):
		transport.Discard(resp)
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		transport.Discard(resp)
		return false, nil
	default:
		return false, responseError(OpCheckStar, endpoint, resp)
	}
}

// AddStar stars ref on behalf of the credential's user.
func (c *Client) AddStar(ctx context.Context, ref RepoRef, token string) error {
	return c.mutate(ctx, OpAddStar, http.MethodPut, ref, token)
}

// RemoveStar unstars ref on behalf of the credential's user.
func (c *Client) RemoveStar(ctx context.Context, ref RepoRef, token string) error {
	return c.mutate(ctx, OpRemoveStar, http.MethodDelete, ref, token)
}

func (c *Client) mutate(ctx context.Context, op Operation, method string, ref RepoRef, token string) error {
	resp, endpoint, err := c.starCall(ctx, op, method, ref, token)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return responseError(op, endpoint, resp)
	}
	transport.Discard(resp)
	return nil
}

func (c *Client) starCall(ctx context.Context, op Operation, method string, ref RepoRef, token string) (*http.Response, string, error) {
	endpoint := "/user/starred/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Name)

	req, err := c.requests.Build(ctx, method, endpoint, nil)
	if err != nil {
		return nil, endpoint, err
	}

	resp, err := c.authed.Do(ctx, req, token)
	if err != nil {
		return nil, endpoint, errors.WrapTransport(op.String(), err)
	}
	return resp, endpoint, nil
}

func searchQuery(params SearchParams) url.Values {
	query := url.Values{}
	if params.Q != "" {
		query.Set("q", params.Q)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}
	if params.PerPage != nil {
		query.Set("per_page", strconv.Itoa(*params.PerPage))
	}
	if params.Page != nil {
		query.Set("page", strconv.Itoa(*params.Page))
	}
	return query
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
