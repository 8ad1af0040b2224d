package cli

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := ensureLoaded(ctx); err != nil {
		return err
	}

	stats := retrievalService.Stats()

	cmd.Println("Index Statistics")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("Documents:     %d\n", stats.DocumentCount)
	cmd.Printf("Vector rows:   %d\n", stats.VectorRows)
	cmd.Printf("Dimensions:    %d\n", stats.VectorDimensions)
	cmd.Printf("Graph nodes:   %d\n", stats.Graph.NodeCount)
	cmd.Printf("Graph edges:   %d\n", stats.Graph.EdgeCount)

	return nil
}
