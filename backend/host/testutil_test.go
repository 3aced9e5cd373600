package host

import (
	"context"
	"strings"
	"sync"
)

// mockBridge records calls and answers like a tiny console.
type mockBridge struct {
	mu     sync.Mutex
	calls  []string
	closed int
	err    error
}

func (m *mockBridge) record(kind, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, kind+":"+code)
	return m.err
}

func (m *mockBridge) Evaluate(_ context.Context, code string) (string, error) {
	if err := m.record("eval", code); err != nil {
		return "", err
	}
	if strings.HasPrefix(code, "raise") {
		return "Traceback (most recent call last):\nEvalError: raised", nil
	}
	return "value of " + code, nil
}

func (m *mockBridge) Execute(_ context.Context, code string) (string, error) {
	if err := m.record("exec", code); err != nil {
		return "", err
	}
	return "", nil
}

func (m *mockBridge) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}
