package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/toolfoundation/model"
)

// ErrInvalidToolID is returned for malformed tool IDs.
var ErrInvalidToolID = errors.New("invalid tool ID format")

// Aggregator combines tools from multiple backends.
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates a new tool aggregator.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Registry returns the underlying registry.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// ListAllTools returns tools from all enabled backends. Tools without a
// namespace are placed in their backend's namespace.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]model.Tool, error) {
	backends := a.registry.ListEnabled()
	all := make([]model.Tool, 0)

	for _, b := range backends {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", b.Name(), err)
		}
		for i := range tools {
			if tools[i].Namespace == "" {
				tools[i].Namespace = b.Name()
			}
			all = append(all, tools[i])
		}
	}

	return all, nil
}

// Execute invokes a tool through the backend registry.
func (a *Aggregator) Execute(ctx context.Context, toolID string, args map[string]any) (string, error) {
	backendName, tool, err := ParseToolID(toolID)
	if err != nil {
		return "", err
	}
	if backendName == "" {
		return "", fmt.Errorf("%w: %q has no namespace", ErrInvalidToolID, toolID)
	}

	b, ok := a.registry.Get(backendName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrBackendNotFound, backendName)
	}
	if !b.Enabled() {
		return "", fmt.Errorf("%w: %s", ErrBackendDisabled, backendName)
	}
	return b.Execute(ctx, tool, args)
}

// ParseToolID splits a tool ID into backend and tool name.
func ParseToolID(id string) (backendName, tool string, err error) {
	backendName, tool, err = model.ParseToolID(id)
	if err != nil {
		return "", "", ErrInvalidToolID
	}
	return backendName, tool, nil
}

// FormatToolID builds a tool ID from backend and tool name.
func FormatToolID(backendName, tool string) string {
	if backendName == "" {
		return tool
	}
	return fmt.Sprintf("%s:%s", backendName, tool)
}
