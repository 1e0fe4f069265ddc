// Package companion provides the main Mochi client and the turn pipeline.
package companion

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrUserNotFound indicates that a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyMessage indicates that a turn was submitted with no text.
	ErrEmptyMessage = errors.New("empty message")

	// ErrInvalidMood indicates a mood label outside the accepted set.
	ErrInvalidMood = errors.New("invalid mood")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTranscription indicates that a voice turn's audio could not be
	// transcribed into text.
	ErrTranscription = errors.New("could not transcribe audio")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")
)

// Error wraps errors with operation context.
//
// Example:
//
//	err := &Error{Op: "SubmitTextTurn", Err: ErrEmptyMessage}
//	// Error() returns: "mochi: SubmitTextTurn: empty message"
type Error struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message in the form "mochi: <Op>: <Err>".
func (e *Error) Error() string {
	return fmt.Sprintf("mochi: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is and errors.As work
// through the wrapper.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error wrapping err. Returns nil when err is nil, so it
// can be applied unconditionally on return paths.
func NewError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
