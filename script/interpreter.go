// Package script embeds a Starlark console behind the dispatch.Interpreter
// interface.
//
// An Interpreter keeps one set of global bindings for its whole life. Exec
// adds whatever a payload assigns at top level; Eval sees those bindings
// alongside the predeclared host API. Bindings are never frozen, so values
// created by one payload can be mutated by the next.
//
// Failures are returned as errors and rendered by [FormatTrace] in a
// Python-like traceback layout ending with "<Kind>: <message>".
package script

import (
	"io"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jonwraymond/hostbridge/dispatch"
)

// DefaultFilename names payloads in traces. It matches the scratch buffer
// name used by the reference host.
const DefaultFilename = "hostbridge.star"

// Config configures an Interpreter.
type Config struct {
	// Predeclared are the bindings visible to every payload, typically the
	// host API handle. The map is copied.
	Predeclared starlark.StringDict

	// Output receives print() output. Defaults to io.Discard; it must never
	// be the protocol stream.
	Output io.Writer

	// Filename names payloads in traces. Defaults to DefaultFilename.
	Filename string
}

// Interpreter is a Starlark console with persistent globals.
type Interpreter struct {
	globals  starlark.StringDict
	thread   *starlark.Thread
	filename string
	opts     *syntax.FileOptions
}

var _ dispatch.Interpreter = (*Interpreter)(nil)

// New creates an Interpreter.
func New(cfg Config) *Interpreter {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	filename := cfg.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	globals := make(starlark.StringDict, len(cfg.Predeclared))
	for k, v := range cfg.Predeclared {
		globals[k] = v
	}

	thread := &starlark.Thread{
		Name: "main",
		Print: func(_ *starlark.Thread, msg string) {
			_, _ = io.WriteString(out, msg+"\n")
		},
	}

	return &Interpreter{
		globals:  globals,
		thread:   thread,
		filename: filename,
		opts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
}

// Eval evaluates code as one expression. None renders as no value, strings
// render without quotes, and everything else uses its Starlark repr.
func (i *Interpreter) Eval(code string) (string, bool, error) {
	v, err := starlark.EvalOptions(i.opts, i.thread, i.filename, code, i.globals)
	if err != nil {
		return "", false, err
	}
	text, ok := render(v)
	return text, ok, nil
}

// Exec runs code as a sequence of statements against the shared globals,
// so a payload may read and rebind names bound by earlier ones. Top-level
// bindings made before a failure are kept.
func (i *Interpreter) Exec(code string) error {
	f, err := i.opts.Parse(i.filename, code, 0)
	if err != nil {
		return err
	}
	return starlark.ExecREPLChunk(f, i.thread, i.globals)
}

// FormatTrace renders err. It does not read the bindings.
func (i *Interpreter) FormatTrace(err error) string {
	return FormatTrace(err)
}

// Lookup returns a global binding.
func (i *Interpreter) Lookup(name string) (starlark.Value, bool) {
	v, ok := i.globals[name]
	return v, ok
}

func render(v starlark.Value) (string, bool) {
	switch v := v.(type) {
	case starlark.NoneType:
		return "", false
	case starlark.String:
		return string(v), true
	default:
		return v.String(), true
	}
}
