package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed relay error with HTTP awareness.
type Error struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	Status        int      `json:"status"`
	MissingFields []string `json:"missingFields,omitempty"`
	Err           error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so predefined values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the relay taxonomy.
var (
	ErrMethodNotAllowed    = New("METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "Method not allowed")
	ErrInvalidBody         = New("INVALID_BODY", http.StatusBadRequest, "Invalid request body")
	ErrMissingFields       = New("MISSING_FIELDS", http.StatusBadRequest, "Missing required fields")
	ErrUpstreamTimeout     = New("UPSTREAM_TIMEOUT", http.StatusRequestTimeout, "Request timeout. Please try again.")
	ErrUpstreamUnreachable = New("UPSTREAM_UNREACHABLE", http.StatusServiceUnavailable, "Unable to connect to registration service. Please try again later.")
	ErrUpstreamBadRequest  = New("UPSTREAM_BAD_REQUEST", http.StatusBadRequest, "Invalid data submitted. Please check your information.")
	ErrUpstreamNotFound    = New("UPSTREAM_NOT_FOUND", http.StatusBadGateway, "Registration service not found. Please contact support.")
	ErrUpstreamServer      = New("UPSTREAM_SERVER_ERROR", http.StatusBadGateway, "External server error. Please try again later.")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error. Please try again.")
)

// MissingFields builds a validation error listing absent payload fields.
func MissingFields(fields []string) *Error {
	clone := *ErrMissingFields
	clone.MissingFields = append([]string(nil), fields...)
	return &clone
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}
