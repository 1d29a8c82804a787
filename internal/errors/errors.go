// Package errors provides the coded error type shared by the traversal,
// resource and menu layers.
//
// A lookup that cannot produce a result fails with ErrCodeNotFound. The HTTP
// layer maps codes to status codes; everything else treats the error as
// opaque and propagates it unchanged.
//
//	err := errors.NotFound("no layout alias %q", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure for the HTTP and CLI layers.
type Code string

const (
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a failed lookup or selection. Cause is set when the failure
// came from a lower layer such as the selection store.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NotFound reports a missing layout, resource, content item or menu.
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	c, ok := codeOf(err)
	return ok && c == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	c, _ := codeOf(err)
	return c
}

func codeOf(err error) (Code, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Code, true
}
