package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hostbridge/backend"
	"github.com/jonwraymond/hostbridge/backend/host"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression|->",
	Short: "Evaluate one expression in the host and print its value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, host.ToolEval, "expression", args[0])
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <code|->",
	Short: "Execute statements in the host; prints a trace on failure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, host.ToolExec, "code", args[0])
	},
}

// runOnce starts the host, runs one payload through the aggregator and shuts
// the host down. A payload of "-" is read from stdin.
func runOnce(cmd *cobra.Command, tool, arg, payload string) error {
	if payload == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		payload = string(data)
	}

	b, err := newBridge(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	id := backend.FormatToolID(b.cfg.Host.Name, tool)
	text, err := b.agg.Execute(cmd.Context(), id, map[string]any{arg: payload})
	if err != nil {
		return err
	}
	if text != "" {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(out)
		}
	}
	return nil
}
