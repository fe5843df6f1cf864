package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/logging"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// RequestBuilder builds upstream requests carrying the fixed headers every
// upstream call must send.
type RequestBuilder struct {
	baseURL   string
	userAgent string
}

// NewRequestBuilder creates a new request builder for the given API root.
func NewRequestBuilder(baseURL, userAgent string) *RequestBuilder {
	if baseURL == "" {
		baseURL = constants.GitHubAPIURL
	}
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}
	return &RequestBuilder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// BaseURL returns the API root requests are built against.
func (rb *RequestBuilder) BaseURL() string {
	return rb.baseURL
}

// Build creates a request for path (relative to the API root) with the
// standard headers applied. Path segments must already be escaped.
func (rb *RequestBuilder) Build(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	target := rb.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, errors.WrapResource("build", "request", method+" "+path, err)
	}
	rb.AddHeaders(req)
	return req, nil
}

// AddHeaders sets the headers required on every upstream call.
func (rb *RequestBuilder) AddHeaders(req *http.Request) {
	req.Header.Set("Accept", constants.GitHubMediaType)
	req.Header.Set("User-Agent", rb.userAgent)
	req.Header.Set("X-GitHub-Api-Version", constants.GitHubAPIVersion)
}

// DecodeResponse decodes a JSON response body into the target structure and
// closes the body. Status handling is the caller's responsibility.
func DecodeResponse(resp *http.Response, target any) error {
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}

// Discard drains and closes a response body so the connection can be reused.
func Discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	closeBody(resp)
}

// ErrorMessage returns the upstream "message" field of an error response, or
// the HTTP status text when the body carries none. The body is closed.
func ErrorMessage(resp *http.Response) string {
	defer closeBody(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logger := logging.Default()
		if resp.Request != nil {
			logger = logging.FromContext(resp.Request.Context())
		}
		logger.Warn().Err(err).Msg("failed to close response body")
	}
}
