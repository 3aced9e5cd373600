package dispatch

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/hostbridge/wire"
)

// Sentinel errors for error classification.
var (
	// ErrInvalidCommand indicates a request frame carried an unknown mode.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrSlotFull indicates an outcome was deposited while the previous one
	// had not been taken yet.
	ErrSlotFull = errors.New("rendezvous slot already holds an outcome")

	// ErrSchedulerClosed indicates the host scheduler no longer accepts tasks.
	ErrSchedulerClosed = errors.New("host scheduler closed")

	// ErrUnframeableResult indicates an outcome contained a line starting
	// with the response sentinel and was replaced by a trace.
	ErrUnframeableResult = errors.New("result contains a line starting with the " + wire.Sentinel + " sentinel")
)

// InvalidCommandError is reported when a frame's sentinel suffix is neither
// eval nor exec.
type InvalidCommandError struct {
	Mode string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("Invalid command %q", e.Mode)
}

// Is reports whether target is ErrInvalidCommand.
func (e *InvalidCommandError) Is(target error) bool {
	return target == ErrInvalidCommand
}

// PanicError carries a panic recovered while running a payload.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
