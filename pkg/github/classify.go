package github

import (
	"net/http"

	"github.com/agentstation/stargazer/internal/transport"
	"github.com/agentstation/stargazer/pkg/errors"
)

// Operation names one upstream call.
type Operation string

// Upstream operations.
const (
	OpSearch     Operation = "search"
	OpCheckStar  Operation = "check_star"
	OpAddStar    Operation = "add_star"
	OpRemoveStar Operation = "remove_star"
)

// Operations lists every upstream operation.
var Operations = []Operation{OpSearch, OpCheckStar, OpAddStar, OpRemoveStar}

// String returns the operation name.
func (op Operation) String() string {
	return string(op)
}

// Classify maps a non-success response for op to an error kind. A 404 on
// check star is not a failure and is handled by the caller before this.
func Classify(op Operation, status int, header http.Header) errors.Kind {
	switch status {
	case http.StatusUnauthorized:
		return errors.KindUnauthorized
	case http.StatusTooManyRequests:
		return errors.KindRateLimited
	case http.StatusForbidden:
		if header.Get("X-RateLimit-Remaining") == "0" || op == OpSearch {
			return errors.KindRateLimited
		}
		return errors.KindUnauthorized
	case http.StatusNotFound:
		if op == OpCheckStar {
			return errors.KindUpstreamUnavailable
		}
		return errors.KindNotFound
	case http.StatusUnprocessableEntity:
		if op == OpCheckStar {
			return errors.KindUpstreamUnavailable
		}
		return errors.KindInvalidInput
	default:
		return errors.KindUpstreamUnavailable
	}
}

// responseError builds the classified error for a non-success response and
// closes its body.
func responseError(op Operation, endpoint string, resp *http.Response) error {
	kind := Classify(op, resp.StatusCode, resp.Header)
	apiErr := errors.NewAPIError(op.String(), resp.StatusCode, kind, transport.ErrorMessage(resp))
	apiErr.Endpoint = endpoint
	return apiErr
}
