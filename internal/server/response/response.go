// Package response provides standardized HTTP response structures and helpers
// for the stargazer API server. All API responses follow a consistent format
// with a data field for successful responses and an error field for failures.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/agentstation/stargazer/pkg/errors"
)

// Response represents the standardized API response structure.
// All endpoints return this format for consistency.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Data: nil,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Error codes returned in the error envelope, one per error kind.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodePreconditionFailed  = "PRECONDITION_FAILED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// Status returns the HTTP status and error code for an error kind.
func Status(kind errors.Kind) (int, string) {
	switch kind {
	case errors.KindInvalidInput:
		return http.StatusUnprocessableEntity, CodeInvalidInput
	case errors.KindUnauthorized:
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case errors.KindRateLimited:
		return http.StatusTooManyRequests, CodeRateLimited
	case errors.KindPreconditionFailed:
		return http.StatusConflict, CodePreconditionFailed
	case errors.KindUpstreamUnavailable:
		return http.StatusBadGateway, CodeUpstreamUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail(CodeUnauthorized, message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail(
		CodeRateLimited,
		"Rate limit exceeded",
		message,
	))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, _ error) {
	// The cause is logged by the caller and never exposed to the client
	JSON(w, http.StatusInternalServerError, Fail(
		CodeInternal,
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ErrorFromType writes the response for err according to its kind.
func ErrorFromType(w http.ResponseWriter, err error) {
	kind := errors.KindOf(err)
	if kind == errors.KindInternal {
		InternalError(w, err)
		return
	}

	status, code := Status(kind)
	JSON(w, status, Fail(code, err.Error(), details(err)))
}

// details returns extra context for the envelope. Upstream messages are only
// surfaced through the error message itself.
func details(err error) string {
	var valErr *errors.ValidationError
	if errors.As(err, &valErr) && valErr.Field != "" {
		return "field: " + valErr.Field
	}
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return "upstream status " + strconv.Itoa(apiErr.StatusCode)
	}
	return ""
}
