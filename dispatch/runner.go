package dispatch

import (
	"fmt"
	"runtime/debug"

	"github.com/jonwraymond/hostbridge/wire"
)

// Request is one decoded frame awaiting execution.
type Request struct {
	Code string
	Mode wire.Mode
}

// Interpreter is the embedded scripting console of the host application.
// It owns the long-lived global bindings that payloads read and mutate.
//
// Contract:
// - Concurrency: Eval and Exec are only called on the host main thread.
//   FormatTrace must not touch bindings and may be called from any goroutine.
// - Errors: Eval and Exec return payload failures as errors; FormatTrace renders them.
// - Ownership: the Runner is the only holder of its Interpreter.
type Interpreter interface {
	// Eval evaluates code as a single expression. ok is false when the
	// value has no meaningful text form.
	Eval(code string) (text string, ok bool, err error)

	// Exec runs code as a sequence of statements.
	Exec(code string) error

	// FormatTrace renders a failure with its kind, message and frames.
	FormatTrace(err error) string
}

// Scratch is the host's visible text buffer mirroring the last payload.
// It is cosmetic; a nil Scratch is allowed.
type Scratch interface {
	SetText(text string)
}

// Runner runs requests on the host main thread.
type Runner struct {
	interp  Interpreter
	scratch Scratch
	logger  Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithScratch mirrors every payload into s before running it.
func WithScratch(s Scratch) RunnerOption {
	return func(r *Runner) {
		r.scratch = s
	}
}

// WithRunnerLogger sets the logger used for protocol violations.
func WithRunnerLogger(l Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner that owns interp.
func NewRunner(interp Interpreter, opts ...RunnerOption) *Runner {
	r := &Runner{interp: interp}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes req and deposits its outcome into slot. It must be called on
// the host main thread and never lets a failure escape.
func (r *Runner) Run(req Request, slot *Slot) {
	outcome := r.run(req)
	if err := slot.Put(outcome); err != nil && r.logger != nil {
		r.logger.Error("outcome dropped", "mode", string(req.Mode), "error", err)
	}
}

func (r *Runner) run(req Request) (outcome Outcome) {
	defer func() {
		if v := recover(); v != nil {
			outcome = r.Fail(&PanicError{Value: v, Stack: debug.Stack()})
		}
	}()

	if r.scratch != nil {
		r.scratch.SetText(req.Code)
	}

	switch req.Mode {
	case wire.ModeEval:
		text, ok, err := r.interp.Eval(req.Code)
		if err != nil {
			return r.Fail(err)
		}
		if !ok {
			return Empty()
		}
		return Value(text)
	case wire.ModeExec:
		if err := r.interp.Exec(req.Code); err != nil {
			return r.Fail(err)
		}
		return Empty()
	default:
		return r.Fail(&InvalidCommandError{Mode: string(req.Mode)})
	}
}

// Fail renders err through the interpreter's trace format. If formatting
// panics, a plain trace naming both failures is used instead.
func (r *Runner) Fail(err error) (outcome Outcome) {
	defer func() {
		if v := recover(); v != nil {
			if r.logger != nil {
				r.logger.Error("trace formatting panicked", "error", err, "panic", v)
			}
			outcome = Failure(fmt.Sprintf("Traceback (most recent call last):\nError: %v (trace formatting panicked: %v)\n", err, v))
		}
	}()
	return Failure(r.interp.FormatTrace(err))
}
