// Package errors defines the service error taxonomy. Every failure a handler
// can surface is one of these variants, each carrying the HTTP status used to
// render it, so the HTTP edge maps variant to status explicitly instead of
// inspecting ad hoc fields.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is a tagged application error.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is matches two service errors by code, so sentinel-style checks like
// errors.Is(err, NotFound("")) work regardless of message.
func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NotFound reports a missing key. Renders as 404.
func NotFound(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       "not_found",
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusNotFound,
	}
}

// BadRequest reports invalid or missing input. Renders as 400.
func BadRequest(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       "bad_request",
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusBadRequest,
	}
}

// Conflict reports a unique-key violation. Renders as 409.
func Conflict(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       "conflict",
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusConflict,
	}
}

// Internal wraps an unexpected failure. Renders as 500 with a generic
// message; the cause stays server-side.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       "internal",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// GetServiceError extracts a ServiceError from an error chain, or nil when
// the error is not one of the taxonomy variants.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
