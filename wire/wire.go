package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel prefixes every frame terminator line.
const Sentinel = ">>>"

// Mode selects how the dispatcher runs a request payload.
type Mode string

// Known modes. Any other suffix after the sentinel is carried verbatim so the
// receiving side can report it.
const (
	ModeEval Mode = "eval"
	ModeExec Mode = "exec"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeEval || m == ModeExec
}

// ErrFrame indicates the stream ended in the middle of a frame.
var ErrFrame = errors.New("wire: truncated frame")

// Request is a decoded request frame.
type Request struct {
	// Code is the raw payload, including line terminators.
	Code string

	// Mode is the trimmed sentinel suffix.
	Mode Mode
}

// WriteRequest writes code followed by the sentinel line for mode.
// A trailing newline is added to non-empty code that lacks one.
func WriteRequest(w io.Writer, mode Mode, code string) error {
	var b strings.Builder
	b.Grow(len(code) + len(Sentinel) + len(mode) + 2)
	b.WriteString(code)
	if code != "" && !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(Sentinel)
	b.WriteString(string(mode))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// ReadRequest reads one request frame.
//
// It returns io.EOF when the stream closes cleanly between frames, and an
// error wrapping ErrFrame when the stream closes after payload lines were
// read but before the sentinel.
func ReadRequest(r *bufio.Reader) (Request, error) {
	var payload strings.Builder
	for {
		line, err := r.ReadString('\n')
		if line != "" && strings.HasPrefix(line, Sentinel) {
			mode := strings.TrimSpace(strings.TrimPrefix(line, Sentinel))
			return Request{Code: payload.String(), Mode: Mode(mode)}, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				payload.WriteString(line)
				if payload.Len() == 0 {
					return Request{}, io.EOF
				}
				return Request{}, fmt.Errorf("%w: %d bytes without sentinel", ErrFrame, payload.Len())
			}
			return Request{}, err
		}
		payload.WriteString(line)
	}
}

// WriteResponse writes an outcome followed by the bare sentinel line.
// When present is false nothing precedes the sentinel.
func WriteResponse(w io.Writer, text string, present bool) error {
	var b strings.Builder
	if present && text != "" {
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(Sentinel)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// ReadResponse reads one response frame and returns its lines joined by
// "\n", without line terminators and without the sentinel.
//
// It returns io.EOF if the stream closes before any byte of the frame, and
// an error wrapping ErrFrame if it closes after a partial frame.
func ReadResponse(r *bufio.Reader) (string, error) {
	var lines []string
	read := 0
	for {
		line, err := r.ReadString('\n')
		read += len(line)
		if line != "" && strings.HasPrefix(line, Sentinel) {
			return strings.Join(lines, "\n"), nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if read == 0 {
					return "", io.EOF
				}
				return "", fmt.Errorf("%w: %d bytes without sentinel", ErrFrame, read)
			}
			return "", err
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}
}

// Unframeable reports whether code contains a line that would be read as a
// sentinel, which would split the frame on the receiving side.
func Unframeable(code string) bool {
	if strings.HasPrefix(code, Sentinel) {
		return true
	}
	return strings.Contains(code, "\n"+Sentinel)
}
