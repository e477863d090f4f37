// Package apperr defines the error kinds shared by the ledgers, the catalog
// planner and the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-checkable error category.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUnavailable     Kind = "UNAVAILABLE"
	KindInternal        Kind = "INTERNAL"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a Kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidArgument reports malformed or out-of-bound input.
func InvalidArgument(message string, details ...FieldError) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message, Details: details}
}

// Unauthenticated reports that no identity is attached to the request.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "Unauthenticated"}
}

// Unauthorized reports an identity acting on a resource it does not own.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unavailable wraps a store connectivity failure.
func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: "Store unavailable", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps a kind onto its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
