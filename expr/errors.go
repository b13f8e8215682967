package expr

import (
	"errors"
	"fmt"

	"github.com/joshuapare/symkit/internal/format"
)

var (
	// ErrCorrupt matches every error produced when an untrusted buffer fails
	// validation. Such a buffer is rejected as a whole.
	ErrCorrupt = format.ErrCorrupt
	// ErrPrecondition matches every construction error caused by the caller.
	ErrPrecondition = errors.New("expr: construction precondition violated")
	// ErrLifetime matches the panic value raised when a view outlives its owner.
	ErrLifetime = errors.New("expr: view used after its owner was released")
)

// CorruptionError is the error type returned for buffers that fail validation.
type CorruptionError = format.CorruptionError

// PreconditionError reports a builder invariant violated by the caller. It is
// returned synchronously; the builder never coerces invalid input.
type PreconditionError struct {
	Op     string // builder operation, e.g. "rational"
	Reason string
	Err    error // optional underlying cause
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("expr: %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("expr: %s: %s", e.Op, e.Reason)
}

// Unwrap exposes ErrPrecondition and the underlying cause.
func (e *PreconditionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPrecondition}
	}
	return []error{ErrPrecondition, e.Err}
}

func precondition(op string, cause error, format string, args ...any) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...), Err: cause}
}

// LifetimeError is the panic value raised when a View is used after the Lease
// of its owning buffer was released.
type LifetimeError struct {
	Owner string
}

func (e *LifetimeError) Error() string {
	return fmt.Sprintf("expr: view of %s used after release", e.Owner)
}

func (e *LifetimeError) Unwrap() error { return ErrLifetime }

// KindError is the panic value raised when a View accessor is called on a span
// of the wrong kind, in the manner of reflect.ValueError.
type KindError struct {
	Method string
	Kind   Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("expr: call of View.%s on %s", e.Method, e.Kind)
}

// ErrFlagMismatch is the cause recorded when a span's cached flags disagree
// with the flags derived from its content.
var ErrFlagMismatch = errors.New("expr: cached flags disagree with content")

// ErrNoOperand is returned when a path names an operand that does not exist.
var ErrNoOperand = errors.New("expr: no such operand")
