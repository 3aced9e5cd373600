package supervisor

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrProcessSpawn indicates the host executable could not be started.
	ErrProcessSpawn = errors.New("host process spawn failed")

	// ErrBrokenPipe indicates the host stream closed or failed mid-exchange.
	ErrBrokenPipe = errors.New("host pipe broken")

	// ErrConfiguration indicates an invalid supervisor configuration.
	ErrConfiguration = errors.New("invalid supervisor configuration")

	// ErrClosed indicates the supervisor was closed.
	ErrClosed = errors.New("supervisor closed")

	// ErrUnframeable indicates a payload line would be read as a frame
	// terminator by the host.
	ErrUnframeable = errors.New("payload contains a sentinel line")
)

// SpawnError wraps a failure to start the host executable.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProcessSpawn.
func (e *SpawnError) Is(target error) bool {
	return target == ErrProcessSpawn
}
