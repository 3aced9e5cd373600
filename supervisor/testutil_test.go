//go:build !windows

package supervisor

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	mockBuildOnce  sync.Once
	mockBinaryPath string
	errMockBuild   error

	hostBuildOnce  sync.Once
	hostBinaryPath string
	errHostBuild   error
)

func buildBinary(pkg, name string) (string, error) {
	dir, err := os.MkdirTemp("", name+"-*")
	if err != nil {
		return "", fmt.Errorf("tmpdir: %w", err)
	}
	path := filepath.Join(dir, name)
	cmd := exec.Command("go", "build", "-o", path, pkg)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("build %s: %w: %s", pkg, err, out)
	}
	return path, nil
}

// mockHost builds testdata/mock-host once and returns a config that runs it
// in the given mode.
func mockHost(t *testing.T, mode string) Config {
	t.Helper()
	mockBuildOnce.Do(func() {
		mockBinaryPath, errMockBuild = buildBinary("./testdata/mock-host/main.go", "mock-host")
	})
	if errMockBuild != nil {
		t.Fatalf("mock binary build failed: %v", errMockBuild)
	}
	return Config{
		Path:             mockBinaryPath,
		Env:              []string{"MOCK_HOST_MODE=" + mode},
		Stderr:           &syncBuffer{},
		TerminateTimeout: 2 * time.Second,
		KillTimeout:      2 * time.Second,
	}
}

// realHost builds cmd/hostapp once.
func realHost(t *testing.T) string {
	t.Helper()
	hostBuildOnce.Do(func() {
		hostBinaryPath, errHostBuild = buildBinary("../cmd/hostapp", "hostapp")
	})
	if errHostBuild != nil {
		t.Fatalf("hostapp build failed: %v", errHostBuild)
	}
	return hostBinaryPath
}

func newSupervisor(t *testing.T, cfg Config) *Supervisor {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// syncBuffer is a bytes.Buffer safe for the stderr copy goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// mockLogger captures log messages for testing.
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+msg)
}

func (l *mockLogger) Info(msg string, _ ...any)  { l.add("INFO", msg) }
func (l *mockLogger) Warn(msg string, _ ...any)  { l.add("WARN", msg) }
func (l *mockLogger) Error(msg string, _ ...any) { l.add("ERROR", msg) }

func (l *mockLogger) has(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.HasPrefix(m, level+": ") && strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
