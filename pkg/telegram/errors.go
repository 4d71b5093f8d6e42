package telegram

import (
	"errors"
	"fmt"
)

// Sentinel errors for client construction and helpers.
var (
	// ErrNoToken indicates New was called without a bot token.
	ErrNoToken = errors.New("telegram: token is required")

	// ErrInvalidToken indicates the token does not look like <bot_id>:<hash>.
	ErrInvalidToken = errors.New("telegram: token format invalid (expected <bot_id>:<hash>)")

	// ErrDownloadUnsupported indicates the configured Transport cannot fetch files.
	ErrDownloadUnsupported = errors.New("telegram: transport does not support file downloads")
)

// TransportError reports a failure to reach the Bot API or to read its reply.
// Context cancellation surfaces here and stays reachable through errors.Is.
type TransportError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram: %s request failed: %v", e.Method, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that is not a valid Bot API envelope.
type DecodeError struct {
	Method     string
	StatusCode int
	Reason     string
	Err        error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := "telegram: decode"
	if e.Method != "" {
		msg += " " + e.Method
	}
	msg += " response: " + e.Reason
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying JSON error, if any.
func (e *DecodeError) Unwrap() error { return e.Err }

// APIError represents an error returned by the Telegram Bot API (ok=false).
type APIError struct {
	Method      string              `json:"-"`
	Code        int                 `json:"error_code"`
	Description string              `json:"description"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	prefix := "telegram:"
	if e.Method != "" {
		prefix = "telegram: " + e.Method + ":"
	}
	if ra := e.RetryAfter(); ra > 0 {
		return fmt.Sprintf("%s %d %s (retry after %ds)", prefix, e.Code, e.Description, ra)
	}
	return fmt.Sprintf("%s %d %s", prefix, e.Code, e.Description)
}

// RetryAfter returns the flood-control wait in seconds, or 0.
func (e *APIError) RetryAfter() int {
	if e.Parameters == nil {
		return 0
	}
	return e.Parameters.RetryAfter
}

// MigrateToChatID returns the new supergroup id when the chat was migrated, or 0.
func (e *APIError) MigrateToChatID() int64 {
	if e.Parameters == nil {
		return 0
	}
	return e.Parameters.MigrateToChatID
}

// MappingError reports a JSON value that does not match the expected schema:
// a required field is missing, or a field has the wrong JSON type.
type MappingError struct {
	Method string
	Type   string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	msg := "telegram: map"
	if e.Method != "" {
		msg += " " + e.Method
	}
	msg += " result"
	if e.Type != "" {
		msg += " into " + e.Type
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	return msg + ": " + e.Reason
}

// ParamError reports request parameters rejected before any I/O.
type ParamError struct {
	Method string
	Field  string
	Rule   string
	Value  any
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	return fmt.Sprintf("telegram: %s: parameter %q fails %q", e.Method, e.Field, e.Rule)
}

// IsAPIError reports whether err is an *APIError with the given error code.
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
