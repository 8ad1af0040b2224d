package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

var (
	askMode  string
	askLimit int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed corpus",
	Long: `Retrieves the most relevant document chunks for the question and
generates an answer from them. Requires a running generation model.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "retrieval mode: vector, graph or hybrid")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 0, "maximum number of context documents")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	ctx := cmd.Context()
	if err := ensureLoaded(ctx); err != nil {
		return err
	}

	opts := searchOptionsFromConfig()
	if askMode != "" {
		opts.Mode = domain.SearchMode(askMode)
	}
	if askLimit > 0 {
		opts.TopK = askLimit
	}

	answer, err := retrievalService.Ask(ctx, question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Println("Sources:")
	for i := range answer.Sources {
		doc := &answer.Sources[i].Document
		cmd.Printf("  [%d] %s", i+1, doc.ID)
		if source := doc.Source(); source != "" {
			cmd.Printf(" (%s)", source)
		}
		cmd.Println()
	}

	return nil
}
