package graph

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/extractors/heuristic"
)

// TestPageRank_EmptyGraph tests the zero-node case yields an empty mapping
func TestPageRank_EmptyGraph(t *testing.T) {
	g := New(heuristic.New())
	require.NoError(t, g.Build(context.Background(), nil))

	assert.Empty(t, g.computePageRank())
}

// TestPageRank_SumsToOne tests the stationary distribution property
func TestPageRank_SumsToOne(t *testing.T) {
	g := builtGraph(t)

	var sum float64
	for _, rank := range g.computePageRank() {
		sum += rank
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

// TestPageRank_LinkedNodesOutrankIsolated tests mass flows along edges
func TestPageRank_LinkedNodesOutrankIsolated(t *testing.T) {
	g := New(&stubExtractor{})
	err := g.Build(context.Background(), []domain.Document{
		{ID: "hub_0", Content: "", Metadata: map[string]any{domain.MetadataKeySource: "s"}},
		{ID: "hub_1", Content: "", Metadata: map[string]any{domain.MetadataKeySource: "s"}},
		{ID: "hub_2", Content: "", Metadata: map[string]any{domain.MetadataKeySource: "s"}},
		{ID: "lone_0", Content: "", Metadata: map[string]any{domain.MetadataKeySource: "t"}},
	})
	require.NoError(t, err)

	ranks := g.computePageRank()

	// Hub documents receive mass from two in-edges each; the isolated
	// document only gets the teleport share.
	assert.Greater(t, ranks["hub_0"], ranks["lone_0"])
}

// TestPageRank_CachedPerVersion tests the version-keyed cache
func TestPageRank_CachedPerVersion(t *testing.T) {
	g := builtGraph(t)

	first := g.pagerank()
	second := g.pagerank()
	assert.Equal(t, first, second)

	// Rebuilding bumps the version and invalidates the cache
	err := g.Build(context.Background(), []domain.Document{
		{ID: "solo_0", Content: "Standalone", Metadata: map[string]any{domain.MetadataKeySource: "z"}},
	})
	require.NoError(t, err)

	refreshed := g.pagerank()
	_, hasOld := refreshed["a_0"]
	assert.False(t, hasOld)
	assert.Contains(t, refreshed, "solo_0")
}

// TestPageRank_CacheMatchesFreshComputation tests cache transparency
func TestPageRank_CacheMatchesFreshComputation(t *testing.T) {
	g := builtGraph(t)

	cached := g.pagerank()
	fresh := g.computePageRank()

	require.Len(t, cached, len(fresh))
	for id, rank := range fresh {
		assert.False(t, math.IsNaN(rank))
		assert.InDelta(t, rank, cached[id], 1e-12)
	}
}
