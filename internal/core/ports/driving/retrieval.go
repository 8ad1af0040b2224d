package driving

import (
	"context"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// RetrievalService is the engine's public surface: index construction,
// retrieval queries, answer generation, and snapshot persistence.
type RetrievalService interface {
	// Index loads documents from path and builds both indices.
	Index(ctx context.Context, path string) (int, error)

	// BuildVectorIndex embeds the documents and rebuilds the vector
	// index. Idempotent: rebuilding from the same corpus yields the
	// same index.
	BuildVectorIndex(ctx context.Context, docs []domain.Document) error

	// BuildKnowledgeGraph rebuilds the knowledge graph from the
	// documents. Idempotent in node and edge sets.
	BuildKnowledgeGraph(ctx context.Context, docs []domain.Document) error

	// Search answers a retrieval query according to opts.Mode.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Ask retrieves context for the question and generates an answer.
	Ask(ctx context.Context, question string, opts domain.SearchOptions) (*domain.Answer, error)

	// Save persists the engine state as one consistent snapshot.
	Save(ctx context.Context) error

	// Load restores the engine state from the persisted snapshot.
	Load(ctx context.Context) error

	// Stats reports the engine's built state.
	Stats() domain.EngineStats
}
