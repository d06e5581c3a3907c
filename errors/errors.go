// Package errors provides error handling for Betty.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Structured secondary errors for aggregate failures
//
// Usage:
//
//	// Wrap with context
//	if err := loadArchive(path); err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnresolvableHandle) {
//	    // the archive is corrupt or truncated
//	}
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
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	CombineErrors      = crdb.CombineErrors
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Sentinel errors for the archive loader.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnknownFormat indicates no recognized archive container matched
	ErrUnknownFormat = New("unrecognized archive format")

	// ErrDocumentParse indicates the archive's markup is not well-formed,
	// or carries a schema version this loader does not understand
	ErrDocumentParse = New("malformed archive document")

	// ErrUnresolvableHandle indicates an element referenced a handle that
	// was never declared in the same archive
	ErrUnresolvableHandle = New("unresolvable handle")
)

// IsUnknownFormat checks if an error is or wraps ErrUnknownFormat
func IsUnknownFormat(err error) bool {
	return err != nil && Is(err, ErrUnknownFormat)
}

// IsDocumentParse checks if an error is or wraps ErrDocumentParse
func IsDocumentParse(err error) bool {
	return err != nil && Is(err, ErrDocumentParse)
}

// IsUnresolvableHandle checks if an error is or wraps ErrUnresolvableHandle
func IsUnresolvableHandle(err error) bool {
	return err != nil && Is(err, ErrUnresolvableHandle)
}

// UnresolvableHandlef creates an unresolvable-handle error with a formatted
// message describing the referencing element and the missing handle.
func UnresolvableHandlef(format string, args ...interface{}) error {
	return Wrap(ErrUnresolvableHandle, Newf(format, args...).Error())
}
