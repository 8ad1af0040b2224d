package driven

import (
	"context"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// KnowledgeGraph is a directed, labeled graph over document and entity
// nodes, built from document content and queried by seed entities.
type KnowledgeGraph interface {
	// Build replaces the graph contents from the document set. Nodes
	// merge by identity and duplicate (source, target, relation)
	// triples collapse, so rebuilding from the same documents yields
	// the same node and edge sets.
	Build(ctx context.Context, docs []domain.Document) error

	// Score ranks document nodes reachable from the query's seed
	// entities. At most limit doc ids are returned, descending by
	// score, ties broken by doc id ascending. Documents not reached
	// by any seed are absent. An unmatched query returns an empty
	// slice, never an error.
	Score(ctx context.Context, query string, limit int) ([]GraphHit, error)

	// Nodes returns all nodes in insertion order. Nil before the
	// first Build.
	Nodes() []domain.Node

	// Edges returns all edges in insertion order.
	Edges() []domain.Edge

	// Restore replaces the graph contents from persisted nodes and
	// edges, preserving their order.
	Restore(nodes []domain.Node, edges []domain.Edge)

	// Stats summarises the graph.
	Stats() domain.GraphStats
}

// GraphHit represents a graph scoring result.
type GraphHit struct {
	// DocID is the scored document node id.
	DocID string

	// Score is the combined centrality score (higher is better).
	Score float64
}

// EntityExtractor maps a text chunk to candidate entity strings.
// It is a capability, not a fixed algorithm: the default heuristic
// keeps capitalized whitespace tokens, but implementations may use
// NER or any other strategy.
type EntityExtractor interface {
	// Extract returns the distinct entities mentioned in the text.
	// Deduplication is case-sensitive; order is unspecified.
	Extract(text string) []string
}
