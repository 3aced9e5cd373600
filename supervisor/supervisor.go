package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/xid"

	"github.com/jonwraymond/hostbridge/wire"
)

// handle is one running child and its pipes.
type handle struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    *os.File
	stdout *bufio.Reader

	done    chan struct{} // closed when the child has been reaped
	waitErr error
	broken  bool
}

func (h *handle) exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Supervisor owns the host child process.
type Supervisor struct {
	cfg Config

	// callMu serializes exchanges so frames never interleave.
	callMu sync.Mutex

	mu     sync.Mutex
	h      *handle
	closed bool
}

// New validates cfg and returns a Supervisor. The host is not started.
func New(cfg Config) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Supervisor{cfg: cfg.withDefaults()}, nil
}

// Evaluate sends code as an expression and returns the host's response text.
func (s *Supervisor) Evaluate(ctx context.Context, code string) (string, error) {
	return s.exchange(ctx, wire.ModeEval, code)
}

// Execute sends code as statements and returns the host's response text,
// which is empty unless the code failed.
func (s *Supervisor) Execute(ctx context.Context, code string) (string, error) {
	return s.exchange(ctx, wire.ModeExec, code)
}

// Running reports whether a usable child is alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h != nil && !s.h.broken && !s.h.exited()
}

// PID returns the child's process id, or 0 if none was started.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.h == nil || s.h.cmd.Process == nil {
		return 0
	}
	return s.h.cmd.Process.Pid
}

type response struct {
	text string
	err  error
}

func (s *Supervisor) exchange(ctx context.Context, mode wire.Mode, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if wire.Unframeable(code) {
		return "", ErrUnframeable
	}

	s.callMu.Lock()
	defer s.callMu.Unlock()

	h, err := s.acquire()
	if err != nil {
		return "", err
	}

	id := xid.New().String()
	start := time.Now()

	if err := wire.WriteRequest(h.stdin, mode, code); err != nil {
		s.markBroken(h)
		s.error("write request failed", "id", id, "mode", string(mode), "error", err)
		return "", fmt.Errorf("%w: write request: %v", ErrBrokenPipe, err)
	}

	ch := make(chan response, 1)
	go func() {
		text, err := wire.ReadResponse(h.stdout)
		ch <- response{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			s.markBroken(h)
			s.error("read response failed", "id", id, "mode", string(mode), "error", r.err)
			return "", fmt.Errorf("%w: read response: %v", ErrBrokenPipe, r.err)
		}
		s.info("exchange", "id", id, "mode", string(mode), "duration", time.Since(start))
		return r.text, nil
	case <-ctx.Done():
		// The response may still arrive later; the stream can't be reused.
		s.markBroken(h)
		_ = signalProcess(h.cmd.Process, os.Kill)
		s.warn("exchange cancelled, host killed", "id", id, "mode", string(mode), "error", ctx.Err())
		return "", ctx.Err()
	}
}

// acquire returns the live handle, starting the child if there is none.
func (s *Supervisor) acquire() (*handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.h != nil {
		if s.h.broken {
			return nil, fmt.Errorf("%w: host no longer usable", ErrBrokenPipe)
		}
		return s.h, nil
	}
	h, err := s.spawn()
	if err != nil {
		return nil, err
	}
	s.h = h
	return h, nil
}

func (s *Supervisor) spawn() (*handle, error) {
	cmd := exec.Command(s.cfg.Path, s.cfg.Args...)
	cmd.Dir = s.cfg.Dir
	if len(s.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), s.cfg.Env...)
	}
	cmd.Stderr = s.cfg.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Path: s.cfg.Path, Err: err}
	}
	// A plain pipe keeps the read end open after Wait, so a response written
	// just before exit is not lost.
	out, outW, err := os.Pipe()
	if err != nil {
		return nil, &SpawnError{Path: s.cfg.Path, Err: err}
	}
	cmd.Stdout = outW

	if err := cmd.Start(); err != nil {
		_ = out.Close()
		_ = outW.Close()
		s.error("host spawn failed", "path", s.cfg.Path, "error", err)
		return nil, &SpawnError{Path: s.cfg.Path, Err: err}
	}
	_ = outW.Close()

	h := &handle{
		cmd:    cmd,
		stdin:  stdin,
		out:    out,
		stdout: bufio.NewReader(out),
		done:   make(chan struct{}),
	}
	go func() {
		h.waitErr = cmd.Wait()
		close(h.done)
		s.info("host exited", "pid", cmd.Process.Pid, "error", h.waitErr)
	}()

	s.info("host started", "path", s.cfg.Path, "args", s.cfg.Args, "pid", cmd.Process.Pid)
	return h, nil
}

func (s *Supervisor) markBroken(h *handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.broken = true
}

// Close shuts the child down. It never fails; a child that outlives both
// waits is abandoned. Safe to call multiple times.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	h := s.h
	s.mu.Unlock()

	if h == nil {
		return nil
	}
	s.terminate(h)
	return nil
}

func (s *Supervisor) terminate(h *handle) {
	defer func() { _ = h.out.Close() }()

	_ = h.stdin.Close()
	_ = signalProcess(h.cmd.Process, syscall.SIGTERM)

	select {
	case <-h.done:
		return
	case <-time.After(s.cfg.TerminateTimeout):
	}

	s.warn("host ignored terminate, killing", "pid", h.cmd.Process.Pid, "timeout", s.cfg.TerminateTimeout)
	_ = signalProcess(h.cmd.Process, os.Kill)

	select {
	case <-h.done:
	case <-time.After(s.cfg.KillTimeout):
		s.warn("host survived kill, abandoning", "pid", h.cmd.Process.Pid, "timeout", s.cfg.KillTimeout)
	}
}

// signalProcess sends sig to a process, returning nil if the process
// has already exited (os.ErrProcessDone).
func signalProcess(proc *os.Process, sig os.Signal) error {
	err := proc.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (s *Supervisor) info(msg string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info(msg, args...)
	}
}

func (s *Supervisor) warn(msg string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Warn(msg, args...)
	}
}

func (s *Supervisor) error(msg string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Error(msg, args...)
	}
}
