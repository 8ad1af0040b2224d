package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

// Search answers a retrieval query according to opts.Mode. An empty
// or whitespace query returns no results without error; an unbuilt
// index surfaces domain.ErrNotBuilt to the caller.
func (e *RetrievalEngine) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	opts = opts.Normalised()
	logger.Debug("Mode: %s, TopK: %d", opts.Mode, opts.TopK)

	switch opts.Mode {
	case domain.SearchModeVector:
		return e.vectorSearch(ctx, query, opts.TopK)
	case domain.SearchModeGraph:
		return e.graphSearch(ctx, query, opts.TopK)
	case domain.SearchModeHybrid:
		return e.hybridSearch(ctx, query, opts)
	default:
		return nil, fmt.Errorf("%w: search mode %q", domain.ErrInvalidInput, opts.Mode)
	}
}

// vectorSearch embeds the query and runs exact similarity search.
// Result scores are squared Euclidean distances, ascending.
func (e *RetrievalEngine) vectorSearch(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	view := e.snapshotForQuery()

	hits, err := e.vectorHits(ctx, view, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, ok := view.document(hit.DocID)
		if !ok {
			// Row references a document missing from the corpus;
			// the snapshot loader rejects this, so surface loudly.
			return nil, fmt.Errorf("%w: vector row for unknown document %s",
				domain.ErrCorruptIndex, hit.DocID)
		}
		results = append(results, domain.SearchResult{Document: doc, Score: hit.Distance})
	}
	return results, nil
}

// graphSearch scores document nodes reachable from the query's seeds.
func (e *RetrievalEngine) graphSearch(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	view := e.snapshotForQuery()

	hits, err := e.graphHits(ctx, view, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, ok := view.document(hit.DocID)
		if !ok {
			return nil, fmt.Errorf("%w: graph node for unknown document %s",
				domain.ErrCorruptIndex, hit.DocID)
		}
		results = append(results, domain.SearchResult{Document: doc, Score: hit.Score})
	}
	return results, nil
}

// hybridSearch fuses vector and graph rankings. Both sides are asked
// for twice the requested k so fusion has candidates beyond either
// side's cutoff.
func (e *RetrievalEngine) hybridSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	view := e.snapshotForQuery()
	fetch := opts.TopK * 2

	var (
		wg         sync.WaitGroup
		vectorHits []driven.VectorHit
		graphHits  []driven.GraphHit
		vectorErr  error
		graphErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vectorHits, vectorErr = e.vectorHits(ctx, view, query, fetch)
	}()
	go func() {
		defer wg.Done()
		graphHits, graphErr = e.graphHits(ctx, view, query, fetch)
	}()
	wg.Wait()

	if vectorErr != nil {
		return nil, fmt.Errorf("hybrid search: %w", vectorErr)
	}
	if graphErr != nil {
		return nil, fmt.Errorf("hybrid search: %w", graphErr)
	}

	logger.Debug("Hybrid search: fusing %d vector + %d graph hits (weights %.2f/%.2f)",
		len(vectorHits), len(graphHits), opts.VectorWeight, opts.GraphWeight)

	fused := fuseRankings(vectorHits, graphHits, opts.VectorWeight, opts.GraphWeight, opts.TopK)

	results := make([]domain.SearchResult, 0, len(fused))
	for _, f := range fused {
		doc, ok := view.document(f.docID)
		if !ok {
			return nil, fmt.Errorf("%w: ranking references unknown document %s",
				domain.ErrCorruptIndex, f.docID)
		}
		results = append(results, domain.SearchResult{Document: doc, Score: f.score})
	}
	return results, nil
}

// vectorHits embeds the query and searches the view's vector index.
func (e *RetrievalEngine) vectorHits(ctx context.Context, view queryView, query string, k int) ([]driven.VectorHit, error) {
	if e.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if view.index == nil {
		return nil, domain.ErrNotBuilt
	}

	embedding, err := e.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := view.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))
	return hits, nil
}

// graphHits scores the view's knowledge graph for the query.
func (e *RetrievalEngine) graphHits(ctx context.Context, view queryView, query string, k int) ([]driven.GraphHit, error) {
	hits, err := view.graph.Score(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("graph search: %w", err)
	}
	logger.Debug("Graph search: %d hits", len(hits))
	return hits, nil
}

// fusedDoc is one entry in the combined ranking.
type fusedDoc struct {
	docID string
	score float64
}

// fuseRankings merges the two ranked lists into one by weighted score.
// Vector hits contribute 1/(1+distance), always in (0,1] and
// monotonically decreasing in distance; graph hits contribute the
// reciprocal rank 1/(position+1). A document present in only one list
// gets zero for the missing side. Weights are taken as given - their
// relative magnitude alone sets the blend, they need not sum to one.
func fuseRankings(
	vectorHits []driven.VectorHit,
	graphHits []driven.GraphHit,
	vectorWeight, graphWeight float64,
	k int,
) []fusedDoc {
	vectorScores := make(map[string]float64, len(vectorHits))
	for _, hit := range vectorHits {
		vectorScores[hit.DocID] = 1.0 / (1.0 + hit.Distance)
	}

	graphScores := make(map[string]float64, len(graphHits))
	for rank, hit := range graphHits {
		graphScores[hit.DocID] = 1.0 / float64(rank+1)
	}

	combined := make(map[string]float64, len(vectorScores)+len(graphScores))
	for id, score := range vectorScores {
		combined[id] = vectorWeight * score
	}
	for id, score := range graphScores {
		combined[id] += graphWeight * score
	}

	fused := make([]fusedDoc, 0, len(combined))
	for id, score := range combined {
		fused = append(fused, fusedDoc{docID: id, score: score})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].docID < fused[j].docID
	})

	if k < len(fused) {
		fused = fused[:k]
	}
	return fused
}
