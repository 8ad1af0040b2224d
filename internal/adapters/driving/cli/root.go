// Package cli implements the strata command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driving"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	retrievalService driving.RetrievalService
	configStore      driven.ConfigStore
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Hybrid document retrieval from your terminal",
	Long: `Strata indexes a local text corpus into a vector similarity index and a
knowledge graph, and answers queries by fusing both rankings.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services groups the dependencies the commands use.
type Services struct {
	Retrieval driving.RetrievalService
	Config    driven.ConfigStore
}

// SetServices injects the service implementations the commands use.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	retrievalService = s.Retrieval
	configStore = s.Config
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
}

// ensureLoaded restores the persisted snapshot before a query command
// runs. A missing snapshot gets a friendlier message than the raw
// sentinel.
func ensureLoaded(ctx context.Context) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	if err := retrievalService.Load(ctx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no index found; run 'strata index <path>' first")
		}
		return fmt.Errorf("load index: %w", err)
	}
	return nil
}

// searchOptionsFromConfig seeds query options from the config store.
// Flags override these per invocation.
func searchOptionsFromConfig() domain.SearchOptions {
	opts := domain.SearchOptions{}
	if configStore == nil {
		return opts
	}

	if v := configStore.GetString("search.mode"); v != "" {
		opts.Mode = domain.SearchMode(v)
	}
	if v := configStore.GetInt("search.top_k"); v > 0 {
		opts.TopK = v
	}
	if v := configStore.GetFloat("search.vector_weight"); v > 0 {
		opts.VectorWeight = v
	}
	if v := configStore.GetFloat("search.graph_weight"); v > 0 {
		opts.GraphWeight = v
	}
	return opts
}
