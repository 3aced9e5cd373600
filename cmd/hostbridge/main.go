// Command hostbridge exposes a scriptable host application as MCP tools.
//
// Usage:
//
//	hostbridge serve                 serve MCP over stdio
//	hostbridge eval 'host.objects()' evaluate one expression
//	hostbridge exec -                execute statements read from stdin
//	hostbridge tools [--search q]    list or search the exposed tools
//
// The host is configured by a TOML file (see --config), HOSTBRIDGE_*
// environment variables and flags, in increasing precedence.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "hostbridge:", err)
		os.Exit(1)
	}
}
