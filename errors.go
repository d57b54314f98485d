package anthropic

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("anthropic: missing API key")

	// ErrUnknownEvent indicates the decoder saw a value outside the known
	// set while the client is configured with UnknownError.
	ErrUnknownEvent = errors.New("anthropic: unknown protocol value")
)

// Server-defined error type tags carried in the error envelope.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypePermission     = "permission_error"
	ErrorTypeNotFound       = "not_found_error"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeAPI            = "api_error"
	ErrorTypeOverloaded     = "overloaded_error"
)

// APIError is a domain error returned by the server in the error envelope.
// It is the authoritative outcome of the call, distinct from transport-level
// failures, and is never retried by this library.
type APIError struct {
	// Type is the server-defined error kind tag (see the ErrorType constants).
	Type string `json:"type"`
	// Message is the human-readable explanation from the server.
	Message string `json:"message"`
	// StatusCode is the HTTP status the envelope arrived with, when known.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("anthropic: %s (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anthropic: %s: %s", e.Type, e.Message)
}

// RequestError is a transport-level failure: connection, TLS, or a non-2xx
// response whose body did not match the error envelope shape.
type RequestError struct {
	StatusCode int    // zero when the request never completed
	Body       string // response body snippet, if any
	Err        error  // wrapped cause
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("anthropic: request failed (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("anthropic: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// DecodeError is a protocol-decode failure: malformed JSON or a payload that
// does not match the wire schema. Raw carries the offending text for diagnosis.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	raw := e.Raw
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return fmt.Sprintf("anthropic: decode failed: %v (payload: %q)", e.Err, raw)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether an error is related to authentication or
// authorization.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeAuthentication ||
			apiErr.Type == ErrorTypePermission ||
			apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return errors.Is(err, ErrMissingAPIKey)
}

// IsRateLimited reports whether the server rejected the call for exceeding
// a rate limit. Whether and when to re-issue the request is the caller's
// decision; nothing is retried internally.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeRateLimit || apiErr.StatusCode == 429
	}
	return false
}

// IsInvalidRequest reports whether the server considered the request
// malformed. These errors require request changes, not a retry.
func IsInvalidRequest(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeInvalidRequest || apiErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsOverloaded reports whether the server reported itself temporarily
// overloaded or unavailable.
func IsOverloaded(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeOverloaded || apiErr.StatusCode == 529
	}
	return false
}
