// Package errors provides error handling for picadata.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints printed by the CLI
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify as a configuration error and add a hint for users
//	return errors.WithHint(errors.Mark(err, errors.ErrUnknownType), "known types: plain, plus, ...")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Mark           = crdb.Mark
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for the failure classes of a run.
// Every fatal error is marked with one of these; use errors.Is() to classify.
var (
	// ErrUnknownType indicates a serialization type name that is not registered
	ErrUnknownType = New("unknown serialization type")

	// ErrInvalidPath indicates a malformed path expression
	ErrInvalidPath = New("invalid path expression")

	// ErrInvalidSchema indicates an unreadable or malformed schema document
	ErrInvalidSchema = New("invalid schema")

	// ErrUnreadableInput indicates the input source could not be opened
	ErrUnreadableInput = New("unreadable input")

	// ErrInvalidConfig indicates a config file or value that failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrParse indicates malformed input found while streaming
	ErrParse = New("parse error")

	// ErrWrite indicates the output stream rejected a record or trailer
	ErrWrite = New("write error")
)

// IsConfigurationError reports whether err aborted the run before any record
// was processed.
func IsConfigurationError(err error) bool {
	return err != nil && IsAny(err, ErrUnknownType, ErrInvalidPath, ErrInvalidSchema, ErrUnreadableInput, ErrInvalidConfig)
}

// IsStreamError reports whether err aborted the run while records were flowing.
func IsStreamError(err error) bool {
	return err != nil && IsAny(err, ErrParse, ErrWrite)
}

// Markf creates a formatted error marked with the given sentinel.
func Markf(sentinel error, format string, args ...interface{}) error {
	return Mark(Newf(format, args...), sentinel)
}
