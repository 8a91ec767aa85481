// Package apperr classifies request failures so handlers can map them to
// status codes deterministically.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a request failure.
type Kind string

const (
	// MissingField means a required key was absent or empty (HTTP 400).
	MissingField Kind = "missing_field"
	// MalformedInput means the request could not be parsed (HTTP 400).
	MalformedInput Kind = "malformed_input"
	// InvalidLocation means a submitted location is not in the allow-list (HTTP 400).
	InvalidLocation Kind = "invalid_location"
	// Internal means a server-side fault unrelated to client input (HTTP 500).
	Internal Kind = "internal"
)

// Error is a classified error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for this error's kind.
func (e *Error) HTTPStatus() int {
	if e.Kind == Internal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// MissingFieldError reports that field is absent from the request.
func MissingFieldError(field string) *Error {
	return &Error{Kind: MissingField, Message: fmt.Sprintf("missing required field: %s", field)}
}

// EmptyFieldError reports that field is present but blank.
func EmptyFieldError(field string) *Error {
	return &Error{Kind: MissingField, Message: fmt.Sprintf("field %s must not be empty", field)}
}

// Malformed wraps a parse failure.
func Malformed(message string, cause error) *Error {
	return &Error{Kind: MalformedInput, Message: message, Cause: cause}
}

// InvalidLocationError builds the client message listing the allowed values.
func InvalidLocationError(location, allowed string) *Error {
	return &Error{
		Kind:    InvalidLocation,
		Message: fmt.Sprintf("Invalid location: '%s'. Allowed locations are: %s", location, allowed),
	}
}

// InternalError wraps a server-side failure.
func InternalError(message string, cause error) *Error {
	return &Error{Kind: Internal, Message: message, Cause: cause}
}

// KindOf extracts the Kind of err. Unclassified errors are treated as
// client-input faults, matching how the write path has always answered them.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return MalformedInput
}

// Status maps any error to an HTTP status code.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusBadRequest
}
