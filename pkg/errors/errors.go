// Package errors provides the error taxonomy for the stargazer system.
// Every failure that crosses a component boundary is classified into one of a
// small set of kinds so that callers can render a stable status without
// inspecting upstream details.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Unwrap are re-exported so callers only need this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinel errors, one per kind.
var (
	// ErrInvalidInput indicates a malformed query or out-of-range parameter
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing credential or one rejected upstream
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the target repository does not exist
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the upstream quota is exhausted
	ErrRateLimited = errors.New("rate limited")

	// ErrPreconditionFailed indicates a local state-machine violation
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrUpstreamUnavailable indicates any other upstream failure
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInternal indicates an unexpected local fault
	ErrInternal = errors.New("internal error")
)

// Kind classifies an error.
type Kind int

const (
	// KindInternal is the zero value so unclassified errors are never
	// mistaken for a more specific kind.
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindNotFound
	KindRateLimited
	KindPreconditionFailed
	KindUpstreamUnavailable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindRateLimited:
		return "RateLimited"
	case KindPreconditionFailed:
		return "PreconditionFailed"
	case KindUpstreamUnavailable:
		return "UpstreamUnavailable"
	default:
		return "Internal"
	}
}

// Sentinel returns the sentinel error for the kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindUnauthorized:
		return ErrUnauthorized
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindPreconditionFailed:
		return ErrPreconditionFailed
	case KindUpstreamUnavailable:
		return ErrUpstreamUnavailable
	default:
		return ErrInternal
	}
}

// kindOrder is the lookup order used by KindOf. Internal is last because it
// is also the fallback.
var kindOrder = []Kind{
	KindInvalidInput,
	KindUnauthorized,
	KindNotFound,
	KindRateLimited,
	KindPreconditionFailed,
	KindUpstreamUnavailable,
	KindInternal,
}

// KindOf returns the kind of err. Errors that match no sentinel are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.Sentinel()) {
			return k
		}
	}
	return KindInternal
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a classified non-success response from the upstream API.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
	Endpoint   string
	Kind       Kind
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream %s failed: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// NewAPIError creates a new APIError
func NewAPIError(operation string, statusCode int, kind Kind, message string) *APIError {
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
	}
}

// TransportError represents a failure to complete an upstream call at all:
// connection refused, timeout, too many redirects, unreadable body.
type TransportError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// NewTransportError creates a new TransportError
func NewTransportError(operation string, err error) *TransportError {
	return &TransportError{Operation: operation, Err: err}
}

// PreconditionError represents a star-state transition rejected locally
// because the repository is already in the requested state.
type PreconditionError struct {
	Owner   string
	Repo    string
	Starred bool
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Starred {
		return fmt.Sprintf("repository %s/%s is already starred", e.Owner, e.Repo)
	}
	return fmt.Sprintf("repository %s/%s is not starred", e.Owner, e.Repo)
}

// Is implements errors.Is support
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(owner, repo string, starred bool) *PreconditionError {
	return &PreconditionError{Owner: owner, Repo: repo, Starred: starred}
}

// AuthenticationError represents a missing or rejected credential
type AuthenticationError struct {
	Method  string // "bearer", "api_key"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "build"
	Resource  string // "config", "gateway", "request"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsInvalidInput checks if an error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsPreconditionFailed checks if an error is a local state-machine violation
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsUpstreamUnavailable checks if an error indicates upstream unavailability
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// Helper wrapping functions for common patterns

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewTransportError(operation, err)
}
