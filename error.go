package knex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fault kinds. Transforms wrap one of these so callers can classify a
// failure with errors.Is regardless of the concrete message.
var (
	// ErrShapeMismatch reports input that is not of the category an
	// operation expects, e.g. a list handed to a string operation.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrBounds reports a well-shaped input that lacks the requested
	// position or key.
	ErrBounds = errors.New("out of bounds")
	// ErrFormat reports input whose content cannot be parsed under the
	// operation's rules: malformed base64, network or MAC addresses,
	// templates, patterns and documents.
	ErrFormat = errors.New("invalid format")
	// ErrPanic reports a transform that panicked while processing.
	ErrPanic = errors.New("transform panicked")
)

// ShapeError builds an ErrShapeMismatch fault for input that should have
// been of the described category.
func ShapeError(want string, got any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrShapeMismatch, want, got)
}

// BoundsError builds an ErrBounds fault for a missing index or key.
func BoundsError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBounds, fmt.Sprintf(format, args...))
}

// FormatError wraps a parse failure as an ErrFormat fault.
func FormatError(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrFormat, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrFormat, what, err)
}

// Error provides rich context about a step that failed while the chain
// was in raise mode, or that was interrupted by its context.
// It wraps the underlying fault with the step that produced it, the
// input it was given and when it happened.
//
// Error handling example:
//
//	out, err := seed.Pipe(ctx, parsers.Split{Delimiter: ","}, parsers.GetIndex{Idx: 5})
//	if err != nil {
//	    var stepErr *knex.Error
//	    if errors.As(err, &stepErr) && errors.Is(stepErr, knex.ErrBounds) {
//	        log.Printf("step %s rejected %v", stepErr.Path[0], stepErr.InputData)
//	    }
//	}
type Error struct {
	Timestamp time.Time
	InputData any
	Err       error
	Path      []Name
	Step      int
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface. The message depends only on the
// path and the underlying fault so that it is stable across runs.
func (e *Error) Error() string {
	path := strings.Join(e.Path, " -> ")
	if e.Timeout {
		return fmt.Sprintf("%s timed out: %v", path, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled: %v", path, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", path, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a deadline.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// recoverFromPanic converts a panic inside a transform into an ErrPanic fault.
func recoverFromPanic(result *any, err *error, name Name) {
	if r := recover(); r != nil {
		*result = nil
		*err = fmt.Errorf("%w: %s: %v", ErrPanic, name, r)
	}
}
