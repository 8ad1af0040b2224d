package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/strata-cli/internal/connectors/filesystem"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a corpus of documents",
	Long: `Loads text files from the given path, builds the vector index and the
knowledge graph, and saves a snapshot for later queries.

With --watch the command keeps running and re-indexes whenever files
under the path change.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "re-index when files change")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	path := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reindex(ctx, cmd, path); err != nil {
		return err
	}

	if !indexWatch {
		return nil
	}

	watcher, err := filesystem.NewWatcher(path, 0)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer watcher.Close()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	for range watcher.Events(ctx) {
		// A failed re-index keeps the previous snapshot and the watch
		// alive; the next change gets another chance.
		if err := reindex(ctx, cmd, path); err != nil {
			logger.Error("Re-index failed: %v", err)
		}
	}

	return nil
}

func reindex(ctx context.Context, cmd *cobra.Command, path string) error {
	count, err := retrievalService.Index(ctx, path)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := retrievalService.Save(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	cmd.Printf("Indexed %d document chunks from %s\n", count, path)
	return nil
}
