package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
)

// Config controls the underlying HTTP client.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
}

// DefaultConfig returns the upstream call defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      constants.DefaultHTTPTimeout,
		MaxRedirects: constants.DefaultMaxRedirects,
	}
}

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
// A timeout or redirect cap of zero falls back to the defaults.
func New(auth Authenticator, cfg Config) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = constants.DefaultMaxRedirects
	}
	return &Client{
		http: &http.Client{
			Timeout:       cfg.Timeout,
			CheckRedirect: limitRedirects(cfg.MaxRedirects),
		},
		auth: auth,
	}
}

// Do performs an HTTP request with the credential applied.
func (c *Client) Do(ctx context.Context, req *http.Request, token string) (*http.Response, error) {
	req = req.WithContext(ctx)
	c.auth.Apply(req, token)
	return c.http.Do(req)
}

func limitRedirects(limit int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return errors.NewTransportError("redirect", fmt.Errorf("stopped after %d redirects", limit))
		}
		return nil
	}
}
