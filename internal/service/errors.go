package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes failures talking to the classification service
type ErrorType string

const (
	// ErrTypeTransport covers network failures, timeouts and unreadable bodies
	ErrTypeTransport ErrorType = "transport"

	// ErrTypeRejection means the service answered with success=false
	ErrTypeRejection ErrorType = "rejection"

	// ErrTypeValidation means the request was refused before being sent
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeInternal indicates a client-side bug such as a marshal failure
	ErrTypeInternal ErrorType = "internal"
)

// Error is returned by every Client call
type Error struct {
	Type ErrorType `json:"type"`

	// Message is safe to show to a user. For rejections it is the
	// service-supplied error text verbatim.
	Message string `json:"message"`

	// Endpoint is the path that was called, e.g. /predict
	Endpoint string `json:"endpoint,omitempty"`

	StatusCode int `json:"status_code,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Type)}

	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same type
func (e *Error) Is(target error) bool {
	if se, ok := target.(*Error); ok {
		return e.Type == se.Type
	}
	return false
}

func newError(errType ErrorType, endpoint, message string) *Error {
	return &Error{Type: errType, Endpoint: endpoint, Message: message}
}

func newErrorWithCause(errType ErrorType, endpoint, message string, cause error) *Error {
	return &Error{Type: errType, Endpoint: endpoint, Message: message, Cause: cause}
}

// TypeOf returns the ErrorType carried by err, or ErrTypeTransport when err
// did not come from this package (e.g. a context error surfaced by a caller).
func TypeOf(err error) ErrorType {
	var se *Error
	if errors.As(err, &se) {
		return se.Type
	}
	return ErrTypeTransport
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return err != nil && TypeOf(err) == ErrTypeTransport
}

// IsRejection reports whether the service refused the request
func IsRejection(err error) bool {
	return err != nil && TypeOf(err) == ErrTypeRejection
}

// IsValidation reports whether the request was refused client-side
func IsValidation(err error) bool {
	return err != nil && TypeOf(err) == ErrTypeValidation
}

// MessageOf returns the user-facing message of a service error
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
