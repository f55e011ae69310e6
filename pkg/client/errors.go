package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies an API error. Every failed call surfaces exactly one kind.
type Kind string

const (
	// KindAuthentication covers 401 responses (bad or missing API key).
	KindAuthentication Kind = "authentication"

	// KindPermission covers 403 responses.
	KindPermission Kind = "permission"

	// KindValidation covers 400 and 422 responses, and local parameter
	// checks that fail before any network call.
	KindValidation Kind = "validation"

	// KindNotFound covers 404 responses.
	KindNotFound Kind = "not_found"

	// KindRateLimit covers 429 responses. The error carries the
	// Retry-After duration from the response header.
	KindRateLimit Kind = "rate_limit"

	// KindServer covers 5xx responses.
	KindServer Kind = "server"

	// KindNetwork covers transport failures: timeouts, refused
	// connections, DNS errors.
	KindNetwork Kind = "network"

	// KindClient is the catch-all for unmapped non-2xx statuses.
	KindClient Kind = "client"
)

// DefaultRetryAfter is used for 429 responses without a Retry-After header.
const DefaultRetryAfter = 60 * time.Second

// ErrRetryExhausted is returned when an enabled retry policy runs out of
// attempts.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// APIError is the error type returned for every failed API call.
type APIError struct {
	// StatusCode is the HTTP status, 0 for network and local errors.
	StatusCode int

	// Kind is the error classification.
	Kind Kind

	// Message is the human-readable message from the error body, or a
	// description of the failure.
	Message string

	// Fields holds field-level validation detail when the API provides it.
	Fields map[string]string

	// RetryAfter is set for rate limit errors.
	RetryAfter time.Duration

	// Body is the raw response body, kept for diagnostics.
	Body []byte

	// Err is the wrapped cause for network errors.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nuclino %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("nuclino %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("nuclino %s error: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/As on the wrapped cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classify maps an HTTP status code to exactly one error kind. It is a pure
// function of the status: same input, same kind, every time.
func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindPermission
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}

// errorBody is the shape of the API's error envelope.
type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// mapResponse translates a non-2xx response into an APIError. It only
// classifies; it never retries.
func mapResponse(status int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Kind:       classify(status),
		Message:    http.StatusText(status),
		Body:       body,
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		apiErr.Fields = parsed.Fields
	}

	if apiErr.Kind == KindRateLimit {
		apiErr.RetryAfter = parseRetryAfter(header)
	}

	return apiErr
}

// parseRetryAfter reads the Retry-After header as integer seconds, falling
// back to DefaultRetryAfter when missing or malformed.
func parseRetryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return DefaultRetryAfter
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return DefaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

// networkError wraps a transport failure. Network errors are outside the
// HTTP status taxonomy.
func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "request failed",
		Err:     err,
	}
}

// NewValidationError builds a local validation error. The facade uses it to
// fail fast on inconsistent parameters without touching the network.
func NewValidationError(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		Message:    message,
	}
}

// KindOf returns the kind of an APIError, or the empty string for other
// error values.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found API error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsRateLimit reports whether err is a rate limit API error.
func IsRateLimit(err error) bool { return KindOf(err) == KindRateLimit }

// IsValidation reports whether err is a validation API error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsAuthentication reports whether err is an authentication API error.
func IsAuthentication(err error) bool { return KindOf(err) == KindAuthentication }

// IsPermission reports whether err is a permission API error.
func IsPermission(err error) bool { return KindOf(err) == KindPermission }

// IsServer reports whether err is a server API error.
func IsServer(err error) bool { return KindOf(err) == KindServer }

// IsNetwork reports whether err is a network error.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }
