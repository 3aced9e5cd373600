// Command hostapp is the reference scriptable host application.
//
// With -P bridge it serves request frames on stdin and answers on stdout,
// running every payload on its main loop. Without -P it just runs the loop
// until interrupted. Diagnostics and print() output go to stderr; stdout
// carries only protocol frames.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hostbridge/hostapp"
)

// bridgeScript is the startup script that enables the request loop.
const bridgeScript = "bridge"

var (
	startupScript string
	idleInterval  time.Duration
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:           "hostapp",
	Short:         "Scriptable reference host application",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := hostapp.New(hostapp.Config{
			Idle:   idleInterval,
			Output: os.Stderr,
			Logger: logger,
		})

		switch startupScript {
		case "":
			logger.Info("host running without bridge")
			return app.Run(ctx)
		case bridgeScript:
			err := app.RunBridge(ctx, os.Stdin, os.Stdout)
			logger.Info("host exiting", "error", err)
			return err
		default:
			return fmt.Errorf("unknown startup script %q (only %q is available)", startupScript, bridgeScript)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&startupScript, "script", "P", "", "startup script to run on the main loop")
	rootCmd.Flags().DurationVar(&idleInterval, "idle", hostapp.DefaultIdleInterval, "idle cycle interval")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "stderr log level (debug, info, warn, error)")
	rootCmd.SetOut(os.Stderr)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "hostapp:", err)
		os.Exit(1)
	}
}
