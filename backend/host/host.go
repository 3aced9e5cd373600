// Package host exposes a supervised host application as a tool backend with
// two tools: eval for a single expression and exec for statements.
package host

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/hostbridge/backend"
)

// Kind is the backend kind reported by Backend.
const Kind = "host"

// Tool names.
const (
	ToolEval = "eval"
	ToolExec = "exec"
)

// Bridge is the conversation with one host application. *supervisor.Supervisor
// satisfies it.
type Bridge interface {
	Evaluate(ctx context.Context, code string) (string, error)
	Execute(ctx context.Context, code string) (string, error)
	Close() error
}

// runFunc runs one tool call against the bridge.
type runFunc func(ctx context.Context, b Bridge, code string) (string, error)

// ToolDef defines one host tool.
type ToolDef struct {
	Name        string
	Title       string
	Description string
	Arg         string
	ArgHelp     string
	Tags        []string
	run         runFunc
}

// InputSchema returns the JSON schema of the tool's single string argument.
func (d ToolDef) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			d.Arg: map[string]any{
				"type":        "string",
				"description": d.ArgHelp,
			},
		},
		"required":             []string{d.Arg},
		"additionalProperties": false,
	}
}

// Defs returns the host tool definitions.
func Defs() []ToolDef {
	return []ToolDef{
		{
			Name:        ToolEval,
			Title:       "evaluate expression",
			Description: "Evaluate one expression in the host application's console and return its value.",
			Arg:         "expression",
			ArgHelp:     "A single expression.",
			Tags:        []string{"host", "eval"},
			run: func(ctx context.Context, b Bridge, code string) (string, error) {
				return b.Evaluate(ctx, code)
			},
		},
		{
			Name:        ToolExec,
			Title:       "execute statements",
			Description: "Execute statements, possibly spanning several lines, in the host application's console.",
			Arg:         "code",
			ArgHelp:     "One or more statements.",
			Tags:        []string{"host", "exec"},
			run: func(ctx context.Context, b Bridge, code string) (string, error) {
				return b.Execute(ctx, code)
			},
		},
	}
}

// Backend implements backend.Backend over a Bridge.
type Backend struct {
	name   string
	bridge Bridge
	defs   map[string]ToolDef

	mu      sync.RWMutex
	enabled bool
	stopped bool
}

var _ backend.Backend = (*Backend)(nil)

// New creates a host backend named name.
func New(name string, bridge Bridge) *Backend {
	defs := make(map[string]ToolDef)
	for _, d := range Defs() {
		defs[d.Name] = d
	}
	return &Backend{
		name:    name,
		bridge:  bridge,
		defs:    defs,
		enabled: true,
	}
}

// Kind returns the backend kind.
func (b *Backend) Kind() string {
	return Kind
}

// Name returns the backend instance name.
func (b *Backend) Name() string {
	return b.name
}

// Enabled returns whether the backend is enabled.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the backend.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// ListTools returns the eval and exec tools, sorted by name.
func (b *Backend) ListTools(_ context.Context) ([]model.Tool, error) {
	out := make([]model.Tool, 0, len(b.defs))
	for _, def := range b.defs {
		out = append(out, model.Tool{
			Tool: mcp.Tool{
				Name:        def.Name,
				Title:       def.Title,
				Description: def.Description,
				InputSchema: def.InputSchema(),
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Execute runs a tool. The host's trace text for a failing payload is
// returned as the result, not as an error.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	b.mu.RLock()
	enabled, stopped := b.enabled, b.stopped
	b.mu.RUnlock()

	if !enabled {
		return "", backend.ErrBackendDisabled
	}
	if stopped {
		return "", fmt.Errorf("%w: %s stopped", backend.ErrBackendUnavailable, b.name)
	}
	def, ok := b.defs[tool]
	if !ok {
		return "", fmt.Errorf("%w: %s", backend.ErrToolNotFound, tool)
	}

	code, err := stringArg(args, def.Arg)
	if err != nil {
		return "", err
	}

	text, err := def.run(ctx, b.bridge, code)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", backend.ErrBackendUnavailable, b.name, err)
	}
	return text, nil
}

// Start is a no-op; the host starts on the first tool call.
func (b *Backend) Start(_ context.Context) error {
	return nil
}

// Stop shuts the host application down.
func (b *Backend) Stop() error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	b.mu.Unlock()
	return b.bridge.Close()
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", backend.ErrInvalidArguments, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", backend.ErrInvalidArguments, name, v)
	}
	return s, nil
}
