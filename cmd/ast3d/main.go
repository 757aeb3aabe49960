// Command ast3d serves the 3D graph engine over HTTP and parses source files
// into engine graphs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ast3d",
		Short:         "3D visualization engine for syntax tree graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newParseCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ast3d:", err)
		os.Exit(1)
	}
}
