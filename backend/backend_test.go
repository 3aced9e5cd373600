package backend

import (
	"context"
	"sync"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockBackend implements Backend for testing.
//
//nolint:revive // test helper
type mockBackend struct {
	kind    string
	name    string
	enabled bool
	tools   []model.Tool
	execFn  func(ctx context.Context, tool string, args map[string]any) (string, error)
	stopErr error

	mu      sync.Mutex
	started int
	stopped int
}

func (m *mockBackend) Kind() string  { return m.kind }
func (m *mockBackend) Name() string  { return m.name }
func (m *mockBackend) Enabled() bool { return m.enabled }

func (m *mockBackend) ListTools(_ context.Context) ([]model.Tool, error) {
	out := make([]model.Tool, len(m.tools))
	copy(out, m.tools)
	return out, nil
}

func (m *mockBackend) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	if m.execFn != nil {
		return m.execFn(ctx, tool, args)
	}
	return "", nil
}

func (m *mockBackend) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return nil
}

func (m *mockBackend) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	return m.stopErr
}

func (m *mockBackend) counts() (started, stopped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started, m.stopped
}

func TestBackend_Interface(t *testing.T) {
	t.Helper()
	var _ Backend = (*mockBackend)(nil)
}

func TestBackend_Methods(t *testing.T) {
	backend := &mockBackend{
		kind:    "host",
		name:    "test-backend",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "eval", Description: "Evaluate an expression"}},
		},
		execFn: func(_ context.Context, _ string, _ map[string]any) (string, error) {
			return "2", nil
		},
	}

	if backend.Kind() != "host" {
		t.Errorf("Kind() = %q, want %q", backend.Kind(), "host")
	}
	if backend.Name() != "test-backend" {
		t.Errorf("Name() = %q, want %q", backend.Name(), "test-backend")
	}
	if !backend.Enabled() {
		t.Error("Enabled() = false, want true")
	}

	tools, err := backend.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 1 {
		t.Errorf("ListTools() returned %d tools, want 1", len(tools))
	}

	result, err := backend.Execute(context.Background(), "eval", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "2" {
		t.Errorf("Execute() = %v, want %v", result, "2")
	}
}
