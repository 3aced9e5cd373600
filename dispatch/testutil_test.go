package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// mockInterpreter implements Interpreter with a tiny variable store.
// "name = value" assigns, "name" looks up, "1 + 1" yields 2,
// "raise <msg>" fails, "panic" panics and "sentinel" yields a value with
// a line starting with the response sentinel.
type mockInterpreter struct {
	mu      sync.Mutex
	vars    map[string]string
	onMain  func() bool
	offMain int
}

var errMockRaise = errors.New("mock raise")

func newMockInterpreter() *mockInterpreter {
	return &mockInterpreter{vars: make(map[string]string)}
}

func (m *mockInterpreter) record() {
	if m.onMain == nil || m.onMain() {
		return
	}
	m.mu.Lock()
	m.offMain++
	m.mu.Unlock()
}

func (m *mockInterpreter) Eval(code string) (string, bool, error) {
	m.record()
	code = strings.TrimSpace(code)
	switch {
	case code == "panic":
		panic("boom")
	case strings.HasPrefix(code, "raise "):
		return "", false, fmt.Errorf("%w: %s", errMockRaise, strings.TrimPrefix(code, "raise "))
	case code == "None":
		return "", false, nil
	case code == "1 + 1":
		return "2", true, nil
	case code == "sentinel":
		return "a\n>>>b", true, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[code]
	if !ok {
		return "", false, fmt.Errorf("%w: undefined: %s", errMockRaise, code)
	}
	return v, true, nil
}

func (m *mockInterpreter) Exec(code string) error {
	m.record()
	for _, line := range strings.Split(strings.TrimSpace(code), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "panic":
			panic("boom")
		case strings.HasPrefix(line, "raise "):
			return fmt.Errorf("%w: %s", errMockRaise, strings.TrimPrefix(line, "raise "))
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		m.mu.Lock()
		m.vars[strings.TrimSpace(name)] = strings.TrimSpace(value)
		m.mu.Unlock()
	}
	return nil
}

func (m *mockInterpreter) FormatTrace(err error) string {
	var kind string
	var ice *InvalidCommandError
	var pe *PanicError
	switch {
	case errors.As(err, &ice):
		kind = "InvalidCommandError"
	case errors.As(err, &pe):
		kind = "Panic"
	case errors.Is(err, errMockRaise):
		kind = "MockError"
	default:
		kind = "Error"
	}
	return "Traceback (most recent call last):\n  <mock>\n" + kind + ": " + err.Error() + "\n"
}

// mockScratch records text mirrored into the scratch buffer.
type mockScratch struct {
	mu    sync.Mutex
	texts []string
}

func (s *mockScratch) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *mockScratch) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

// mainThread is a single goroutine that runs submitted tasks in order,
// standing in for the host scheduler.
type mainThread struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	closed chan struct{}
	ran    int
	mu     sync.Mutex

	running atomic.Bool
}

func newMainThread() *mainThread {
	mt := &mainThread{
		tasks:  make(chan func(), 16),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go mt.loop()
	return mt
}

func (mt *mainThread) loop() {
	defer close(mt.done)
	for {
		select {
		case task := <-mt.tasks:
			mt.mu.Lock()
			mt.ran++
			mt.mu.Unlock()
			mt.running.Store(true)
			task()
			mt.running.Store(false)
		case <-mt.closed:
			return
		}
	}
}

func (mt *mainThread) Submit(task func()) error {
	select {
	case <-mt.closed:
		return ErrSchedulerClosed
	default:
	}
	mt.tasks <- task
	return nil
}

// inTask reports whether the caller runs inside a main-thread task.
func (mt *mainThread) inTask() bool {
	return mt.running.Load()
}

func (mt *mainThread) stop() {
	mt.once.Do(func() { close(mt.closed) })
	<-mt.done
}

func (mt *mainThread) count() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.ran
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
		if strings.HasPrefix(m, level) && strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
