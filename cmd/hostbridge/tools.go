package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hostbridge/backend"
	"github.com/jonwraymond/hostbridge/backend/host"
)

var (
	toolsSearch string
	toolsLimit  int
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or search the tools the bridge exposes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := newBridge(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if toolsSearch != "" {
			results, err := b.cat.Search(toolsSearch, toolsLimit)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\n", r.ID, r.ShortDescription)
			}
			return nil
		}

		writeHosts(w, b.agg.Registry())
		for _, e := range b.cat.Entries() {
			doc, err := b.cat.Describe(e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", e.ID, doc.Summary)
		}
		return nil
	},
}

// writeHosts prints one line per host backend with its state.
func writeHosts(w io.Writer, reg *backend.Registry) {
	for _, b := range reg.ListByKind(host.Kind) {
		state := "enabled"
		if !b.Enabled() {
			state = "disabled"
		}
		fmt.Fprintf(w, "# %s\t%s %s\n", b.Name(), b.Kind(), state)
	}
}

func init() {
	toolsCmd.Flags().StringVar(&toolsSearch, "search", "", "search query")
	toolsCmd.Flags().IntVar(&toolsLimit, "limit", 10, "maximum search results")
}
