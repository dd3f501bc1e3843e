package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Server-driven UI runtime",
		Long: `mirror keeps a live mirror of each browser's DOM on the server.

Application code builds a tree of typed elements; the runtime sends
incremental create/update/remove instructions over a WebSocket and
routes clicks, input and navigation back to the handlers that were
registered when the tree was built.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)
	return cmd
}
