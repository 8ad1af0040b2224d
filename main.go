// Strata is a local hybrid document-retrieval tool. It indexes a text
// corpus into a vector index and a knowledge graph and answers queries
// by fusing both rankings.
package main

import (
	"fmt"
	"os"

	"github.com/quarrylabs/strata-cli/internal/adapters/driven/ai"
	configfile "github.com/quarrylabs/strata-cli/internal/adapters/driven/config/file"
	"github.com/quarrylabs/strata-cli/internal/adapters/driven/storage/snapshot"
	"github.com/quarrylabs/strata-cli/internal/adapters/driving/cli"
	"github.com/quarrylabs/strata-cli/internal/connectors/filesystem"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/core/services"
	"github.com/quarrylabs/strata-cli/internal/extractors/heuristic"
	"github.com/quarrylabs/strata-cli/internal/index/flat"
	"github.com/quarrylabs/strata-cli/internal/index/graph"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	embedding, err := ai.NewEmbeddingService(ai.EmbeddingSettingsFromConfig(configStore))
	if err != nil {
		return fmt.Errorf("configure embedding provider: %w", err)
	}

	generation, err := ai.NewGenerationService(ai.GenerationSettingsFromConfig(configStore))
	if err != nil {
		return fmt.Errorf("configure generation provider: %w", err)
	}

	chunkOverlap := configStore.GetInt("chunk.overlap")
	if _, ok := configStore.Get("chunk.overlap"); !ok {
		chunkOverlap = -1 // splitter default
	}
	loader := filesystem.NewLoader(
		filesystem.WithSplitter(filesystem.NewSplitter(configStore.GetInt("chunk.size"), chunkOverlap)),
	)

	snapshots, err := snapshot.NewStore(configStore.GetString("index.path"))
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	engine := services.NewRetrievalEngine(services.Config{
		Embedding:  embedding,
		Generation: generation,
		Loader:     loader,
		Snapshots:  snapshots,
		NewVectorIndex: func(dimensions int) driven.VectorIndex {
			return flat.New(dimensions)
		},
		NewKnowledgeGraph: func() driven.KnowledgeGraph {
			return graph.New(heuristic.New())
		},
	})

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Retrieval: engine,
		Config:    configStore,
	})

	return cli.Execute()
}
