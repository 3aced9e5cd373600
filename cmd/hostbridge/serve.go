package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/hostbridge/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the host's tools over MCP on stdio",
	Long: `Serve the host's eval and exec tools to one MCP client on stdin/stdout.

The host application starts on the first tool call and is shut down when the
client disconnects or the process is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := newBridge(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := b.Close(); err != nil {
				b.logger.Warn("shutdown", "error", err)
			}
		}()

		srv, err := server.New(b.agg, b.cat, server.Options{
			Name:   b.cfg.Server.Name,
			Logger: b.logger.With("component", "server"),
		})
		if err != nil {
			return err
		}

		b.logger.Info("serving", "host", b.cfg.Host.Path, "backends", b.agg.Registry().Names(), "tools", srv.Tools())
		err = srv.Run(ctx, &mcp.StdioTransport{})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}
