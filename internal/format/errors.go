package format

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrCorrupt indicates a buffer that violates the cell layout. A corrupt
	// buffer is rejected as a whole; no partial recovery is attempted.
	ErrCorrupt = errors.New("format: corrupt expression buffer")
	// ErrUnknownKind indicates a discriminant outside the defined kinds.
	ErrUnknownKind = errors.New("format: unknown kind")
	// ErrSpanMismatch indicates that walking a composite's children did not land
	// on the end recorded in its header.
	ErrSpanMismatch = errors.New("format: span mismatch")
	// ErrName indicates a name that cannot be stored in (or was not read from) a
	// valid name field.
	ErrName = errors.New("format: invalid name")
	// ErrUnsupported indicates a structure or wire version this build does not handle.
	ErrUnsupported = errors.New("format: unsupported feature")
)

// CorruptionError pinpoints the cell where validation of an untrusted buffer
// failed. It matches both ErrCorrupt and its specific cause under errors.Is.
type CorruptionError struct {
	Cell   int  // Cell index relative to the start of the buffer
	Kind   Kind // Kind at Cell, as read (may itself be invalid)
	Reason string
	Err    error
}

func (e *CorruptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format: corrupt cell %d (%s): %s: %v", e.Cell, e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("format: corrupt cell %d (%s): %s", e.Cell, e.Kind, e.Reason)
}

// Unwrap exposes ErrCorrupt and the specific cause.
func (e *CorruptionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorrupt}
	}
	return []error{ErrCorrupt, e.Err}
}

func corrupt(cell int, k Kind, cause error, format string, args ...any) error {
	return &CorruptionError{Cell: cell, Kind: k, Reason: fmt.Sprintf(format, args...), Err: cause}
}
