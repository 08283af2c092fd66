package apierr

import (
	"errors"
	"fmt"
)

// Error codes shared by the HTTP API and its clients. Remote responses
// carry one of these in the error body; the client layer adds TRANSPORT
// for failures that never produced a response.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
	CodeUnknown      = "UNKNOWN"
	CodeTransport    = "TRANSPORT"
)

type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap keeps the underlying error reachable through errors.Unwrap while
// presenting a typed code to callers.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Body is the wire shape of every non-2xx response: {"error": {...}}.
type Body struct {
	Error *Error `json:"error"`
}

func (e *Error) Body() Body {
	return Body{Error: e}
}

// FromError extracts a typed API error, or nil if err is not one.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func HasCode(err error, code string) bool {
	apiErr := FromError(err)
	return apiErr != nil && apiErr.Code == code
}

func IsUnauthorized(err error) bool { return HasCode(err, CodeUnauthorized) }
func IsValidation(err error) bool   { return HasCode(err, CodeValidation) }
func IsNotFound(err error) bool     { return HasCode(err, CodeNotFound) }
func IsTransport(err error) bool    { return HasCode(err, CodeTransport) }
