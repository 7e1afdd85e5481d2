// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures of dataset construction and access.
type ErrorKind int

const (
	// UnknownKind is returned by KindOf for errors that don't carry a kind.
	UnknownKind ErrorKind = iota

	// NotFound is used when a directory, manifest or item file is absent or can't be opened.
	NotFound

	// InvalidArgument is used for arguments outside their accepted values.
	InvalidArgument

	// ParseError is used when a manifest line can't be parsed.
	ParseError

	// OutOfRange is used for item indices outside [0, Len()).
	OutOfRange

	// Decode is used when an item file exists but its contents can't be decoded.
	Decode
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case InvalidArgument:
		return "InvalidArgument"
	case ParseError:
		return "ParseError"
	case OutOfRange:
		return "OutOfRange"
	case Decode:
		return "Decode"
	}
	return "Unknown"
}

// Error is the error returned by datasets in this module. Use errors.Is with one of the
// sentinel values (ErrNotFound, ErrInvalidArgument, ...) or KindOf to branch on its kind.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinel values, one per kind, to be used with errors.Is.
var (
	ErrNotFound        = &Error{Kind: NotFound}
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
	ErrParse           = &Error{Kind: ParseError}
	ErrOutOfRange      = &Error{Kind: OutOfRange}
	ErrDecode          = &Error{Kind: Decode}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so `errors.Is(err, ErrNotFound)` works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf returns a new *Error of the given kind, annotated with a stack trace.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// WrapErrorf returns a new *Error of the given kind with cause as the underlying error,
// annotated with a stack trace.
func WrapErrorf(kind ErrorKind, cause error, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause})
}

// KindOf returns the kind of the first *Error found in err's chain, or UnknownKind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownKind
}

// CheckIndex returns an OutOfRange error if index is not in [0, length).
// Implementations of Indexed use it to validate the argument of At.
func CheckIndex(index, length int) error {
	if index < 0 || index >= length {
		return Errorf(OutOfRange, "index %d out of range [0, %d)", index, length)
	}
	return nil
}
