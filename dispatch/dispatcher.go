package dispatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/jonwraymond/hostbridge/wire"
)

// Scheduler queues work onto the host application's main thread.
//
// Contract:
// - Submit must not run task on the calling goroutine.
// - A nil error means task will run exactly once on the main thread.
// - After shutdown, Submit returns an error wrapping ErrSchedulerClosed.
type Scheduler interface {
	Submit(task func()) error
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func()) error

// Submit calls f(task).
func (f SchedulerFunc) Submit(task func()) error {
	return f(task)
}

// Dispatcher reads request frames, runs them through the host scheduler and
// writes response frames.
type Dispatcher struct {
	runner *Runner
	sched  Scheduler
	slot   *Slot
	logger Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a dispatcher that schedules runner on sched.
func NewDispatcher(runner *Runner, sched Scheduler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		runner: runner,
		sched:  sched,
		slot:   NewSlot(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Serve runs the request loop until r is exhausted.
//
// It returns nil when the input closes, including in the middle of a frame;
// no response is written for an unterminated frame. It returns an error when
// writing a response fails or when the scheduler stops accepting work, after
// answering the pending request with a trace.
func (d *Dispatcher) Serve(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		frame, err := wire.ReadRequest(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, wire.ErrFrame) {
				d.warn("input closed mid-frame", "error", err)
				return nil
			}
			return fmt.Errorf("dispatch: read request: %w", err)
		}

		req := Request{Code: frame.Code, Mode: frame.Mode}
		outcome, schedErr := d.roundTrip(req)
		if outcome.Present && wire.Unframeable(outcome.Text) {
			d.warn("result would split the response frame", "mode", string(req.Mode), "failed", outcome.Failed)
			outcome = d.runner.Fail(ErrUnframeableResult)
		}

		if err := wire.WriteResponse(bw, outcome.Text, outcome.Present); err != nil {
			return fmt.Errorf("dispatch: write response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("dispatch: flush response: %w", err)
		}
		if schedErr != nil {
			return fmt.Errorf("dispatch: schedule: %w", schedErr)
		}
	}
}

// roundTrip hands req to the host and waits for its outcome.
func (d *Dispatcher) roundTrip(req Request) (Outcome, error) {
	slot := d.slot
	err := d.sched.Submit(func() {
		d.runner.Run(req, slot)
	})
	if err != nil {
		d.error("submit failed", "mode", string(req.Mode), "error", err)
		return d.runner.Fail(err), err
	}
	return slot.Take(), nil
}

func (d *Dispatcher) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

func (d *Dispatcher) error(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Error(msg, args...)
	}
}
