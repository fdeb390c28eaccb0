// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code classifies the errors the sampler package returns, following the
// error-kind taxonomy of spec.md §7.
type Code int

const (
	// InvalidArgument indicates a null required value, unknown flag, or an
	// empty pattern list.
	InvalidArgument Code = iota
	// NotFound indicates an ID absent from a source's cached name table.
	NotFound
	// ResourceExhausted indicates an allocation failure or a pattern-count
	// limit exceeded.
	ResourceExhausted
	// Conflict indicates a double-register of an unsupported form.
	Conflict
	// AdapterFailure indicates a source or sink callback returned an error.
	AdapterFailure
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "invalid_argument"
	case NotFound:
		return "not_found"
	case ResourceExhausted:
		return "resource_exhausted"
	case Conflict:
		return "conflict"
	case AdapterFailure:
		return "adapter_failure"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the sampler package.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sampler error (%s): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("sampler error (%s): %s", e.Code, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to Cause.
func (e *Error) Unwrap() error { return e.Cause }

func newError(code Code, format string, a ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// wrapError attaches a stack trace to cause (via pkg/errors, as
// plugins/logs does for upload failures) before recording it as the
// Error's Cause, so a %+v format of the returned error shows where the
// adapter failure originated.
func wrapError(code Code, cause error, format string, a ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...), Cause: pkgerrors.WithStack(cause)}
}

// IsInvalidArgument reports whether err is a Code-InvalidArgument Error.
func IsInvalidArgument(err error) bool { return hasCode(err, InvalidArgument) }

// IsNotFound reports whether err is a Code-NotFound Error.
func IsNotFound(err error) bool { return hasCode(err, NotFound) }

// IsResourceExhausted reports whether err is a Code-ResourceExhausted Error.
func IsResourceExhausted(err error) bool { return hasCode(err, ResourceExhausted) }

// IsConflict reports whether err is a Code-Conflict Error.
func IsConflict(err error) bool { return hasCode(err, Conflict) }

// IsAdapterFailure reports whether err is a Code-AdapterFailure Error.
func IsAdapterFailure(err error) bool { return hasCode(err, AdapterFailure) }

func hasCode(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
