// Command mock-host is a stand-in host application for supervisor tests.
//
// MOCK_HOST_MODE selects its behavior:
//
//	normal           answer frames with a tiny variable store
//	ignore-term      like normal, but ignore SIGTERM and stdin EOF
//	exit-on-request  exit without answering the first frame
//	slow             like normal, but sleep before every answer
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonwraymond/hostbridge/wire"
)

func main() {
	mode := os.Getenv("MOCK_HOST_MODE")
	if mode == "ignore-term" {
		signal.Ignore(syscall.SIGTERM)
	}
	fmt.Fprintln(os.Stderr, "mock-host: started")

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	vars := map[string]string{}

	for {
		req, err := wire.ReadRequest(in)
		if err != nil {
			if mode == "ignore-term" {
				for {
					time.Sleep(time.Hour)
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			os.Exit(2)
		}
		switch mode {
		case "exit-on-request":
			os.Exit(3)
		case "slow":
			time.Sleep(10 * time.Second)
		}

		text, present := answer(vars, req)
		if err := wire.WriteResponse(out, text, present); err != nil {
			os.Exit(2)
		}
		if err := out.Flush(); err != nil {
			os.Exit(2)
		}
	}
}

func answer(vars map[string]string, req wire.Request) (string, bool) {
	code := strings.TrimSpace(req.Code)
	switch req.Mode {
	case wire.ModeEval:
		switch {
		case code == "1 + 1":
			return "2", true
		case code == "lines":
			return "a\nb\nc", true
		case strings.HasPrefix(code, "raise "):
			return trace(strings.TrimPrefix(code, "raise ")), true
		}
		v, ok := vars[code]
		if !ok {
			return trace("name '" + code + "' is not defined"), true
		}
		return v, true
	case wire.ModeExec:
		for _, line := range strings.Split(code, "\n") {
			if strings.HasPrefix(line, "raise ") {
				return trace(strings.TrimPrefix(line, "raise ")), true
			}
			if name, value, ok := strings.Cut(line, "="); ok {
				vars[strings.TrimSpace(name)] = strings.TrimSpace(value)
			}
		}
		return "", false
	default:
		return "Traceback (most recent call last):\nInvalidCommandError: Invalid command \"" + string(req.Mode) + "\"", true
	}
}

func trace(msg string) string {
	return "Traceback (most recent call last):\n  <mock>: in <toplevel>\nMockError: " + msg
}
