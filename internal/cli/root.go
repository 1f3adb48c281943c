package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the headergrid command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "headergrid",
		Short: "Build multi-row grouped table headers",
		Long: `headergrid turns a tree of grouped columns into a bottom-aligned
header grid and renders tables with it as text, JSON, CSV or Excel.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCommand(), newServeCommand())
	return root
}
