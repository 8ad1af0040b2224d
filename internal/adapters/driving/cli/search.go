package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

var (
	searchMode         string
	searchLimit        int
	searchVectorWeight float64
	searchGraphWeight  float64
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Queries the indexed corpus.

Modes:
  vector - exact vector similarity search (lower score is closer)
  graph  - knowledge graph connectivity scoring
  hybrid - weighted fusion of both rankings (default)`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "search mode: vector, graph or hybrid")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchVectorWeight, "vector-weight", 0, "vector contribution in hybrid mode")
	searchCmd.Flags().Float64Var(&searchGraphWeight, "graph-weight", 0, "graph contribution in hybrid mode")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	ctx := cmd.Context()
	if err := ensureLoaded(ctx); err != nil {
		return err
	}

	opts := searchOptionsFromConfig()
	if searchMode != "" {
		opts.Mode = domain.SearchMode(searchMode)
	}
	if searchLimit > 0 {
		opts.TopK = searchLimit
	}
	if searchVectorWeight > 0 {
		opts.VectorWeight = searchVectorWeight
	}
	if searchGraphWeight > 0 {
		opts.GraphWeight = searchGraphWeight
	}

	results, err := retrievalService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := &results[i].Document

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, doc.ID, results[i].Score)
		if source := doc.Source(); source != "" {
			cmd.Printf("      Source: %s\n", source)
		}
		if preview := doc.Preview(); preview != "" {
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}

	return nil
}
