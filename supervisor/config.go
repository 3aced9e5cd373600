package supervisor

import (
	"fmt"
	"io"
	"time"
)

// Default shutdown waits.
const (
	DefaultTerminateTimeout = 5 * time.Second
	DefaultKillTimeout      = 5 * time.Second
)

// Config configures a Supervisor.
type Config struct {
	// Path is the host executable. Required.
	Path string

	// Args are the launch arguments, typically the flag that loads the
	// bridge entry point.
	Args []string

	// Env is appended to the current environment.
	Env []string

	// Dir is the child's working directory.
	Dir string

	// Stderr receives the child's stderr. Defaults to os.Stderr.
	Stderr io.Writer

	// TerminateTimeout bounds the wait after SIGTERM.
	TerminateTimeout time.Duration

	// KillTimeout bounds the wait after SIGKILL.
	KillTimeout time.Duration

	// Logger receives lifecycle and exchange diagnostics.
	Logger Logger
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: host path is required", ErrConfiguration)
	}
	if c.TerminateTimeout < 0 {
		return fmt.Errorf("%w: terminate timeout must be >= 0", ErrConfiguration)
	}
	if c.KillTimeout < 0 {
		return fmt.Errorf("%w: kill timeout must be >= 0", ErrConfiguration)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.TerminateTimeout == 0 {
		c.TerminateTimeout = DefaultTerminateTimeout
	}
	if c.KillTimeout == 0 {
		c.KillTimeout = DefaultKillTimeout
	}
	return c
}
