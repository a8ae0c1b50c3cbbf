package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrInvalidArgument is returned for missing or malformed caller input,
	// such as an empty path or an unsupported method.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout indicates that a token fetch or API call did not complete
	// within its deadline.
	ErrTimeout = errors.New("request timeout")
)

// AuthenticationError is returned when the client-credentials exchange fails.
type AuthenticationError struct {
	// StatusCode is the token endpoint's HTTP status, or 0 if no response
	// was received.
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FieldError is a single field/message pair reported by the API.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// APIError carries the validation or business errors reported in a
// response's "errors" map. It is returned regardless of the HTTP status.
type APIError struct {
	StatusCode int
	Fields     []FieldError
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "api error: " + strings.Join(parts, "; ")
}

// Message returns the message reported for field, if any.
func (e *APIError) Message(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// HTTPError is returned for a non-2xx response without a structured error body.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API call failed with status %d", e.StatusCode)
}

// DecodeError is returned when a response body is not valid JSON.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// isTimeout reports whether err came from an expired deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyTransport wraps a transport error with ErrTimeout when it was
// caused by a deadline.
func classifyTransport(op string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
