package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the category of an application error.
type Kind string

const (
	KindConflict          Kind = "conflict"
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindInvalidArgument   Kind = "invalid_argument"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInternal          Kind = "internal"
)

// Error represents an application error with an HTTP status code.
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Conflict(message string) *Error {
	return newError(KindConflict, http.StatusConflict, message)
}

func Unauthenticated(message string) *Error {
	return newError(KindUnauthenticated, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return newError(KindNotFound, http.StatusNotFound, message)
}

func InvalidArgument(message string) *Error {
	return newError(KindInvalidArgument, http.StatusBadRequest, message)
}

func InsufficientStock(message string) *Error {
	return newError(KindInsufficientStock, http.StatusBadRequest, message)
}

// Internal wraps an unexpected failure. The wrapped error is logged by the
// caller, never serialized to the client.
func Internal(message string, err error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, message)
	e.Err = err
	return e
}

// From converts any error into an *Error, defaulting to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error", err)
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
