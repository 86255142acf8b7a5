package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id resolves to no row.
	ErrUserNotFound = errors.New("User not found")
	// ErrPostNotFound is returned when a post id resolves to no row.
	ErrPostNotFound = errors.New("Post not found")
	// ErrUsernameExists is returned when a username is already taken.
	ErrUsernameExists = errors.New("Username already exists")
	// ErrEmailExists is returned when an email is already taken.
	ErrEmailExists = errors.New("Email already exists")
)

// ErrorResponse is the JSON body for HTTP-level errors on API routes.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldError describes one failed constraint in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse is the JSON body for payload validation failures.
type ValidationResponse struct {
	Details []FieldError `json:"details"`
}

// ValidationError reports request values that failed validation outside the
// struct validator, such as path parameters. It renders with the same 422
// {details} shape as payload validation failures.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}

// HTTPError carries a status code alongside a client-facing message.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// collapse to a 500 with a generic message so internals never leak.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrPostNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameExists), errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
