// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode classifies errors surfaced by the aggregation engines
// Values are stable; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeProviderAlreadyRegistered is for a duplicate provider name on add
	ErrorCodeProviderAlreadyRegistered

	// ErrorCodeProviderNotRegistered is for lookups or removals of an absent provider name
	ErrorCodeProviderNotRegistered

	// ErrorCodeNoProvidersSpecified is for an empty name list after filtering
	ErrorCodeNoProvidersSpecified

	// ErrorCodeCacheFailure is for any cache backend error on get or set
	ErrorCodeCacheFailure

	// ErrorCodeInvalidConfiguration is for options rejected at construction time
	ErrorCodeInvalidConfiguration

	// ErrorCodeCacheImplementationNeeded is for caching enabled without a backend
	ErrorCodeCacheImplementationNeeded

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeUnavailable is for backend probes that did not answer
	// never surfaced by the engines, providers turn it into an ERROR status
	ErrorCodeUnavailable
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:                   "unknown",
	ErrorCodeProviderAlreadyRegistered: "provider_already_registered",
	ErrorCodeProviderNotRegistered:     "provider_not_registered",
	ErrorCodeNoProvidersSpecified:      "no_providers_specified",
	ErrorCodeCacheFailure:              "cache_failure",
	ErrorCodeInvalidConfiguration:      "invalid_configuration",
	ErrorCodeCacheImplementationNeeded: "cache_implementation_needed",
	ErrorCodeInvalidArgument:           "invalid_argument",
	ErrorCodeUnavailable:               "unavailable",
}

// String returns the snake_case name of the code, used as a log and metric label
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return codeNames[ErrorCodeUnknown]
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// AlreadyRegistered returns a duplicate provider registration error
func AlreadyRegistered(name string) error {
	return WithField(Newf(ErrorCodeProviderAlreadyRegistered, "provider [%s] is already registered", name), name)
}

// NotRegistered returns a missing provider error
func NotRegistered(name string) error {
	return WithField(Newf(ErrorCodeProviderNotRegistered, "no provider registered for [%s]", name), name)
}

// NoProviders returns the empty provider list error
func NoProviders() error {
	return New(ErrorCodeNoProvidersSpecified, "no providers specified")
}

// CacheFailuref returns a cache failure without an underlying cause (e.g. a refused write)
func CacheFailuref(format string, a ...any) error { return Newf(ErrorCodeCacheFailure, format, a...) }

// WrapCache wraps a backend error as a cache failure
func WrapCache(orig error, key string) error {
	return WithField(Wrapf(orig, ErrorCodeCacheFailure, "cache backend failed for key [%s]", key), key)
}

// InvalidConfigf returns an invalid configuration error
func InvalidConfigf(format string, a ...any) error {
	return Newf(ErrorCodeInvalidConfiguration, format, a...)
}

// CacheImplementationNeeded returns the error raised when caching is on but no backend was given
func CacheImplementationNeeded() error {
	return New(ErrorCodeCacheImplementationNeeded, "a cache implementation is required when caching is enabled")
}

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
