package script

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jonwraymond/hostbridge/dispatch"
)

const traceHeader = "Traceback (most recent call last):\n"

// Error kinds printed on the last line of a trace.
const (
	KindEval           = "EvalError"
	KindSyntax         = "SyntaxError"
	KindResolve        = "ResolveError"
	KindInvalidCommand = "InvalidCommandError"
	KindPanic          = "Panic"
	KindError          = "Error"
)

// FormatTrace renders err as a traceback: a header, one line per frame and
// a final "<Kind>: <message>" line. The result always ends with a newline.
func FormatTrace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(traceHeader)

	var (
		evalErr    *starlark.EvalError
		syntaxErr  syntax.Error
		resolveErr resolve.ErrorList
		invalidErr *dispatch.InvalidCommandError
		panicErr   *dispatch.PanicError
	)

	switch {
	case errors.As(err, &evalErr):
		for _, fr := range evalErr.CallStack {
			fmt.Fprintf(&b, "  %s: in %s\n", fr.Pos, fr.Name)
		}
		writeLast(&b, KindEval, evalErr.Msg)
	case errors.As(err, &syntaxErr):
		fmt.Fprintf(&b, "  %s: in <toplevel>\n", syntaxErr.Pos)
		writeLast(&b, KindSyntax, syntaxErr.Msg)
	case errors.As(err, &resolveErr):
		msgs := make([]string, 0, len(resolveErr))
		for _, e := range resolveErr {
			fmt.Fprintf(&b, "  %s: in <toplevel>\n", e.Pos)
			msgs = append(msgs, e.Msg)
		}
		writeLast(&b, KindResolve, strings.Join(msgs, "; "))
	case errors.As(err, &invalidErr):
		writeLast(&b, KindInvalidCommand, invalidErr.Error())
	case errors.As(err, &panicErr):
		for _, line := range strings.Split(strings.TrimRight(string(panicErr.Stack), "\n"), "\n") {
			if line == "" {
				continue
			}
			b.WriteString("  ")
			b.WriteString(strings.TrimSpace(line))
			b.WriteByte('\n')
		}
		writeLast(&b, KindPanic, fmt.Sprint(panicErr.Value))
	default:
		writeLast(&b, KindError, err.Error())
	}
	return b.String()
}

func writeLast(b *strings.Builder, kind, msg string) {
	b.WriteString(kind)
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteByte('\n')
}
