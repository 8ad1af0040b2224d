package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driving"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

// Ensure RetrievalEngine implements the interface.
var _ driving.RetrievalService = (*RetrievalEngine)(nil)

// embedBatchSize is the number of texts sent per embedding request.
const embedBatchSize = 32

// Config wires the engine's collaborators. Embedding, Generation and
// Loader are optional; search modes degrade per the port contracts.
type Config struct {
	// Embedding generates document and query vectors.
	Embedding driven.EmbeddingService

	// Generation produces answer text for Ask.
	Generation driven.GenerationService

	// Loader reads document chunks from disk for Index.
	Loader driven.DocumentLoader

	// Snapshots persists and restores engine state.
	Snapshots driven.SnapshotStore

	// NewVectorIndex constructs an empty vector index with the given
	// dimensionality. Called on every build so rebuilds swap in a
	// complete snapshot instead of mutating the live index.
	NewVectorIndex func(dimensions int) driven.VectorIndex

	// NewKnowledgeGraph constructs an empty knowledge graph.
	NewKnowledgeGraph func() driven.KnowledgeGraph
}

// RetrievalEngine owns the corpus and both indices. Queries share a
// read lock; builds assemble a complete new index and swap it in under
// the write lock, so in-flight reads never observe a partial build.
type RetrievalEngine struct {
	mu          sync.RWMutex
	docs        []domain.Document
	docIndex    map[string]int
	vectorIndex driven.VectorIndex // nil until the first build or load
	graph       driven.KnowledgeGraph

	embedding  driven.EmbeddingService
	generation driven.GenerationService
	loader     driven.DocumentLoader
	snapshots  driven.SnapshotStore

	newVectorIndex    func(int) driven.VectorIndex
	newKnowledgeGraph func() driven.KnowledgeGraph
}

// NewRetrievalEngine creates an engine with an empty corpus and
// unbuilt indices.
func NewRetrievalEngine(cfg Config) *RetrievalEngine {
	return &RetrievalEngine{
		docIndex:          make(map[string]int),
		graph:             cfg.NewKnowledgeGraph(),
		embedding:         cfg.Embedding,
		generation:        cfg.Generation,
		loader:            cfg.Loader,
		snapshots:         cfg.Snapshots,
		newVectorIndex:    cfg.NewVectorIndex,
		newKnowledgeGraph: cfg.NewKnowledgeGraph,
	}
}

// Index loads documents from path and builds both indices from the
// same document set. The two builds are independent and run in
// parallel. Returns the number of loaded document chunks.
func (e *RetrievalEngine) Index(ctx context.Context, path string) (int, error) {
	if e.loader == nil {
		return 0, fmt.Errorf("index: %w", domain.ErrInvalidInput)
	}

	logger.Section("Index Build")
	docs, err := e.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}
	logger.Info("Loaded %d document chunks from %s", len(docs), path)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.BuildVectorIndex(gctx, docs) })
	g.Go(func() error { return e.BuildKnowledgeGraph(gctx, docs) })
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(docs), nil
}

// BuildVectorIndex embeds the documents and swaps in a freshly built
// vector index. The corpus is replaced by the given document set, with
// embeddings attached.
func (e *RetrievalEngine) BuildVectorIndex(ctx context.Context, docs []domain.Document) error {
	if e.embedding == nil {
		return domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Building vector index: %d documents, %d dimensions",
		len(docs), e.embedding.Dimensions())

	vectors, err := e.embedAll(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}

	indexed := make([]domain.Document, len(docs))
	ids := make([]string, len(docs))
	for i := range docs {
		indexed[i] = docs[i]
		indexed[i].Embedding = vectors[i]
		ids[i] = docs[i].ID
	}

	ix := e.newVectorIndex(e.embedding.Dimensions())
	if err := ix.Build(ctx, ids, vectors); err != nil {
		return fmt.Errorf("build vector index: %w", err)
	}

	e.mu.Lock()
	e.setDocumentsLocked(indexed)
	e.vectorIndex = ix
	e.mu.Unlock()

	logger.Info("Vector index built with %d documents", len(docs))
	return nil
}

// BuildKnowledgeGraph rebuilds the knowledge graph from the documents.
// Pass the same document set given to BuildVectorIndex: the two
// indices must stay in lock-step over one corpus.
func (e *RetrievalEngine) BuildKnowledgeGraph(ctx context.Context, docs []domain.Document) error {
	logger.Debug("Building knowledge graph: %d documents", len(docs))

	graph := e.newKnowledgeGraph()
	if err := graph.Build(ctx, docs); err != nil {
		return fmt.Errorf("build knowledge graph: %w", err)
	}

	e.mu.Lock()
	if len(e.docs) == 0 {
		e.setDocumentsLocked(docs)
	}
	e.graph = graph
	e.mu.Unlock()

	stats := graph.Stats()
	logger.Info("Knowledge graph built with %d nodes and %d edges",
		stats.NodeCount, stats.EdgeCount)
	return nil
}

// embedAll generates embeddings for the document contents, fanning
// out fixed-size batches. The result is positionally aligned with docs.
func (e *RetrievalEngine) embedAll(ctx context.Context, docs []domain.Document) ([][]float32, error) {
	vectors := make([][]float32, len(docs))
	if len(docs) == 0 {
		return vectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch := docs[start:end]
		offset := start
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Content
			}

			embedded, err := e.embedding.EmbedBatch(gctx, texts)
			if err != nil {
				return err
			}
			if len(embedded) != len(texts) {
				return fmt.Errorf("%w: requested %d embeddings, got %d",
					domain.ErrInvalidInput, len(texts), len(embedded))
			}

			for i, vec := range embedded {
				if len(vec) != e.embedding.Dimensions() {
					return fmt.Errorf("%w: embedding has %d dimensions, model reports %d",
						domain.ErrDimensionMismatch, len(vec), e.embedding.Dimensions())
				}
				vectors[offset+i] = vec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Save persists the engine state as one consistent snapshot. Unbuilt
// components are recorded as absent, never as empty-but-complete.
func (e *RetrievalEngine) Save(ctx context.Context) error {
	if e.snapshots == nil {
		return fmt.Errorf("save: %w", domain.ErrInvalidInput)
	}

	e.mu.RLock()
	snap := domain.Snapshot{
		Documents: make([]domain.Document, len(e.docs)),
	}
	copy(snap.Documents, e.docs)
	if e.vectorIndex != nil {
		if ids, rows := e.vectorIndex.Rows(); ids != nil {
			snap.VectorDimensions = e.vectorIndex.Dimensions()
			snap.VectorIDs = ids
			snap.VectorRows = rows
		}
	}
	if nodes := e.graph.Nodes(); nodes != nil {
		snap.Nodes = nodes
		snap.Edges = e.graph.Edges()
	}
	e.mu.RUnlock()

	if err := snap.Validate(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	logger.Section("Snapshot Save")
	if err := e.snapshots.Save(ctx, &snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("Saved %d documents, %d vector rows, %d graph nodes",
		len(snap.Documents), len(snap.VectorIDs), len(snap.Nodes))
	return nil
}

// Load restores the engine state from the persisted snapshot. Missing
// artifacts leave the corresponding component unbuilt; searches
// against it fail with domain.ErrNotBuilt rather than crashing.
func (e *RetrievalEngine) Load(ctx context.Context) error {
	if e.snapshots == nil {
		return fmt.Errorf("load: %w", domain.ErrInvalidInput)
	}

	logger.Section("Snapshot Load")
	snap, err := e.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var ix driven.VectorIndex
	if snap.HasVectorIndex() {
		ix = e.newVectorIndex(snap.VectorDimensions)
		if err := ix.Build(ctx, snap.VectorIDs, snap.VectorRows); err != nil {
			return fmt.Errorf("%w: rebuild vector index: %v", domain.ErrCorruptIndex, err)
		}
	}

	graph := e.newKnowledgeGraph()
	if snap.HasGraph() {
		graph.Restore(snap.Nodes, snap.Edges)
	}

	e.mu.Lock()
	e.setDocumentsLocked(snap.Documents)
	e.vectorIndex = ix
	e.graph = graph
	e.mu.Unlock()

	logger.Info("Restored %d documents (vector index: %t, graph: %t)",
		len(snap.Documents), snap.HasVectorIndex(), snap.HasGraph())
	return nil
}

// Stats reports the engine's built state.
func (e *RetrievalEngine) Stats() domain.EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := domain.EngineStats{
		DocumentCount: len(e.docs),
		Graph:         e.graph.Stats(),
	}
	if e.vectorIndex != nil {
		stats.VectorDimensions = e.vectorIndex.Dimensions()
		if ids, _ := e.vectorIndex.Rows(); ids != nil {
			stats.VectorRows = len(ids)
		}
	}
	return stats
}

// setDocumentsLocked replaces the corpus. Caller holds the write lock.
func (e *RetrievalEngine) setDocumentsLocked(docs []domain.Document) {
	e.docs = docs
	e.docIndex = make(map[string]int, len(docs))
	for i := range docs {
		e.docIndex[docs[i].ID] = i
	}
}

// queryView is one consistent engine state captured for a query.
// Builds and loads swap in freshly allocated corpus slices and
// indices, so the captured references never mutate underneath a
// reader.
type queryView struct {
	index    driven.VectorIndex
	graph    driven.KnowledgeGraph
	docs     []domain.Document
	docIndex map[string]int
}

// document returns a copy of the document with the given id.
func (v queryView) document(id string) (domain.Document, bool) {
	i, ok := v.docIndex[id]
	if !ok {
		return domain.Document{}, false
	}
	return v.docs[i], true
}

// snapshotForQuery captures the corpus and both indices under a
// single read lock so a concurrent rebuild cannot swap state
// mid-query. Hit resolution must go through the returned view, not
// back to the engine.
func (e *RetrievalEngine) snapshotForQuery() queryView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return queryView{
		index:    e.vectorIndex,
		graph:    e.graph,
		docs:     e.docs,
		docIndex: e.docIndex,
	}
}

