// Package errors provides error values that wrap causes without
// resorting to fmt.Errorf("%w", err), in the spirit of the standard
// errors package (https://golang.org/src/fmt/errors.go).
package errors

import (
	stderr "errors"
	"fmt"
	"strings"
)

var _ error = New("")

// New builds a new Error with a message
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Newf builds a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Error augments the standard error interface with a Wrap method.
//
// An Error wraps any number of nested errors: classification
// sentinels and causes share the chain, so errors.Is matches a
// sentinel even after a cause is wrapped on top of it.
type Error struct {
	msg  string
	errs []error
}

// Error message, including the chain of wrapped errors
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.errs)+1)
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	for _, err := range e.errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap nested errors
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.errs
}

// Wrap a nested error. Wrapping accumulates: a sentinel wrapped at
// construction time stays reachable when a cause is wrapped later.
// The receiver is returned for chaining:
// errors.New("open state dir").Wrap(err).
func (e *Error) Wrap(err error) *Error {
	e.errs = append(e.errs, err)
	return e
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	for _, err := range e.errs {
		if err == target {
			return true
		}
	}
	return false
}

// As finds the first error in err's chain that matches target
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
