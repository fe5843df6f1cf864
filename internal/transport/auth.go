package transport

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Authenticator applies a caller credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication. Search requests use it so that a
// caller's credential is never forwarded to the public search endpoint.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
}
