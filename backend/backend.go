package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Common errors for backend operations.
var (
	ErrBackendNotFound    = errors.New("backend not found")
	ErrBackendDisabled    = errors.New("backend disabled")
	ErrToolNotFound       = errors.New("tool not found in backend")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidArguments   = errors.New("invalid tool arguments")
)

// Backend defines a source of tools.
// The bridge registers one backend per host application it supervises.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: ListTools and Execute must honor cancellation/deadlines.
// - Errors: use ErrBackendDisabled/ErrToolNotFound/ErrBackendUnavailable/ErrInvalidArguments where applicable.
// - Results: Execute returns tool output as text; script failures are output, not errors.
type Backend interface {
	// Kind returns the backend type (e.g., "host").
	Kind() string

	// Name returns the unique instance name for this backend.
	Name() string

	// Enabled returns whether this backend is currently enabled.
	Enabled() bool

	// ListTools returns all tools available from this backend.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute invokes a tool on this backend.
	Execute(ctx context.Context, tool string, args map[string]any) (string, error)

	// Start prepares the backend. Backends that start lazily may return nil.
	Start(ctx context.Context) error

	// Stop shuts the backend down. It must be safe to call more than once.
	Stop() error
}
