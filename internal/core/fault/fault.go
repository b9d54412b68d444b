package fault

import (
	"errors"
	"fmt"
)

// ErrConsumed is returned by any read or commit through a staged update
// that has already been applied.
var ErrConsumed = errors.New("staged update already applied")

// ActionFailure is the only recoverable error class. The update that
// produced it is discarded and the step becomes a no-op.
type ActionFailure struct {
	Msg string
}

func (e *ActionFailure) Error() string { return "action failed: " + e.Msg }

// Failf builds an ActionFailure with a formatted message.
func Failf(format string, args ...any) error {
	return &ActionFailure{Msg: fmt.Sprintf(format, args...)}
}

// IsRecoverable reports whether err (or anything it wraps) is an ActionFailure.
func IsRecoverable(err error) bool {
	var af *ActionFailure
	return errors.As(err, &af)
}

// OutOfBounds signals a coordinate outside the world. It is a programmer
// error, never shown to the player.
type OutOfBounds struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBounds) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) out of bounds %dx%d", e.X, e.Y, e.Width, e.Height)
}

// StateUpdateError is an invariant violation found while committing a
// staged update. Always fatal.
type StateUpdateError struct {
	Component string
	Msg       string
}

func (e *StateUpdateError) Error() string {
	return fmt.Sprintf("state update (%s): %s", e.Component, e.Msg)
}

// StateUpdatef builds a StateUpdateError for the named component.
func StateUpdatef(component, format string, args ...any) error {
	return &StateUpdateError{Component: component, Msg: fmt.Sprintf(format, args...)}
}

// IsStateUpdate reports whether err wraps a StateUpdateError.
func IsStateUpdate(err error) bool {
	var se *StateUpdateError
	return errors.As(err, &se)
}
