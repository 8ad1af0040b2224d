// Package graph provides the in-memory knowledge graph: a directed,
// labeled graph over document and entity nodes, built from document
// content via a pluggable entity extractor and scored by degree
// centrality combined with PageRank.
package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
)

// MinSeedLength is the exclusive lower bound on query token length for
// seed entity candidates.
const MinSeedLength = 3

// Scoring blend between degree centrality and PageRank.
const (
	degreeWeight   = 0.5
	pagerankWeight = 0.5
)

// Ensure Graph implements the interface.
var _ driven.KnowledgeGraph = (*Graph)(nil)

type edgeKey struct {
	source   string
	target   string
	relation domain.Relation
}

// Graph is the in-memory knowledge graph. Node identity deduplicates
// on upsert and duplicate (source, target, relation) triples collapse,
// making construction idempotent. Safe for concurrent use: Build and
// Restore swap contents under a write lock, queries share a read lock.
type Graph struct {
	mu        sync.RWMutex
	extractor driven.EntityExtractor

	nodes     []domain.Node
	nodeIndex map[string]int
	edges     []domain.Edge
	edgeSet   map[edgeKey]struct{}

	// successors and predecessors hold distinct adjacent ids per node,
	// insertion ordered. degree counts in+out edges per node.
	successors   map[string][]string
	predecessors map[string][]string
	degree       map[string]int

	built   bool
	version uint64

	// PageRank cache, keyed on the graph version. Guarded separately
	// so concurrent queries serialise only the computation.
	prMu      sync.Mutex
	prScores  map[string]float64
	prVersion uint64
}

// New creates an empty, unbuilt graph using the given extractor.
func New(extractor driven.EntityExtractor) *Graph {
	return &Graph{extractor: extractor}
}

// Build replaces the graph contents from the document set.
// For each document it upserts a document node, links extracted
// entities with contains edges, and links documents sharing a source
// metadata value with same_source edges in both directions.
func (g *Graph) Build(ctx context.Context, docs []domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := newBuilder()

	bySource := make(map[string][]string)
	for i := range docs {
		bySource[docs[i].Source()] = append(bySource[docs[i].Source()], docs[i].ID)
	}

	for i := range docs {
		doc := &docs[i]
		b.upsertDocument(doc)

		for _, entity := range g.extractor.Extract(doc.Content) {
			b.upsertEntity(entity)
			b.addEdge(doc.ID, entity, domain.RelationContains)
		}

		for _, otherID := range bySource[doc.Source()] {
			if otherID != doc.ID {
				b.addEdge(doc.ID, otherID, domain.RelationSameSource)
			}
		}
	}

	g.mu.Lock()
	b.install(g)
	g.mu.Unlock()

	return nil
}

// Restore replaces the graph contents from persisted nodes and edges,
// preserving their order.
func (g *Graph) Restore(nodes []domain.Node, edges []domain.Edge) {
	b := newBuilder()
	for i := range nodes {
		b.putNode(nodes[i])
	}
	for i := range edges {
		b.addEdge(edges[i].Source, edges[i].Target, edges[i].Relation)
	}

	g.mu.Lock()
	b.install(g)
	g.mu.Unlock()
}

// Score ranks document nodes reachable from the query's seed entities
// by 0.5*degree + 0.5*pagerank. Seeds are whitespace tokens longer
// than MinSeedLength that exist as graph nodes; the relevant set is
// each seed plus its direct neighbors in either direction, so an
// entity seed reaches the documents containing it.
func (g *Graph) Score(ctx context.Context, query string, limit int) ([]driven.GraphHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.built {
		return nil, domain.ErrNotBuilt
	}
	if limit <= 0 {
		return []driven.GraphHit{}, nil
	}

	relevant := make(map[string]struct{})
	for _, token := range strings.Fields(query) {
		if utf8.RuneCountInString(token) <= MinSeedLength {
			continue
		}
		if _, ok := g.nodeIndex[token]; !ok {
			continue
		}
		relevant[token] = struct{}{}
		for _, succ := range g.successors[token] {
			relevant[succ] = struct{}{}
		}
		for _, pred := range g.predecessors[token] {
			relevant[pred] = struct{}{}
		}
	}

	if len(relevant) == 0 {
		return []driven.GraphHit{}, nil
	}

	ranks := g.pagerank()

	hits := make([]driven.GraphHit, 0, len(relevant))
	for id := range relevant {
		if g.nodes[g.nodeIndex[id]].Kind != domain.NodeKindDocument {
			continue
		}
		hits = append(hits, driven.GraphHit{
			DocID: id,
			Score: degreeWeight*float64(g.degree[id]) + pagerankWeight*ranks[id],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID < hits[j].DocID
	})

	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

// Nodes returns a copy of all nodes in insertion order.
// Nil before the first Build or Restore.
func (g *Graph) Nodes() []domain.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.built {
		return nil
	}
	nodes := make([]domain.Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []domain.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.built {
		return nil
	}
	edges := make([]domain.Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Stats summarises the graph.
func (g *Graph) Stats() domain.GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := domain.GraphStats{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
	}
	for i := range g.nodes {
		switch g.nodes[i].Kind {
		case domain.NodeKindDocument:
			stats.DocumentNodes++
		case domain.NodeKindEntity:
			stats.EntityNodes++
		}
	}
	return stats
}

// builder accumulates a new graph state so Build/Restore can swap it
// in atomically without queries observing a half-built graph.
type builder struct {
	nodes        []domain.Node
	nodeIndex    map[string]int
	edges        []domain.Edge
	edgeSet      map[edgeKey]struct{}
	successors   map[string][]string
	succSet      map[string]map[string]struct{}
	predecessors map[string][]string
	predSet      map[string]map[string]struct{}
	degree       map[string]int
}

func newBuilder() *builder {
	return &builder{
		nodeIndex:    make(map[string]int),
		edgeSet:      make(map[edgeKey]struct{}),
		successors:   make(map[string][]string),
		succSet:      make(map[string]map[string]struct{}),
		predecessors: make(map[string][]string),
		predSet:      make(map[string]map[string]struct{}),
		degree:       make(map[string]int),
	}
}

// upsertDocument adds or refreshes a document node.
func (b *builder) upsertDocument(doc *domain.Document) {
	node := domain.Node{
		ID:       doc.ID,
		Kind:     domain.NodeKindDocument,
		Preview:  doc.Preview(),
		Metadata: doc.Metadata,
	}
	if i, ok := b.nodeIndex[doc.ID]; ok {
		b.nodes[i] = node
		return
	}
	b.nodeIndex[doc.ID] = len(b.nodes)
	b.nodes = append(b.nodes, node)
}

// upsertEntity adds an entity node unless the identity already exists.
func (b *builder) upsertEntity(name string) {
	if _, ok := b.nodeIndex[name]; ok {
		return
	}
	b.nodeIndex[name] = len(b.nodes)
	b.nodes = append(b.nodes, domain.Node{ID: name, Kind: domain.NodeKindEntity})
}

// putNode inserts a persisted node verbatim, merging on identity.
func (b *builder) putNode(node domain.Node) {
	if i, ok := b.nodeIndex[node.ID]; ok {
		b.nodes[i] = node
		return
	}
	b.nodeIndex[node.ID] = len(b.nodes)
	b.nodes = append(b.nodes, node)
}

// addEdge records a directed labeled edge, collapsing duplicates.
func (b *builder) addEdge(source, target string, relation domain.Relation) {
	key := edgeKey{source: source, target: target, relation: relation}
	if _, ok := b.edgeSet[key]; ok {
		return
	}
	b.edgeSet[key] = struct{}{}
	b.edges = append(b.edges, domain.Edge{Source: source, Target: target, Relation: relation})

	if b.succSet[source] == nil {
		b.succSet[source] = make(map[string]struct{})
	}
	if _, ok := b.succSet[source][target]; !ok {
		b.succSet[source][target] = struct{}{}
		b.successors[source] = append(b.successors[source], target)
	}
	if b.predSet[target] == nil {
		b.predSet[target] = make(map[string]struct{})
	}
	if _, ok := b.predSet[target][source]; !ok {
		b.predSet[target][source] = struct{}{}
		b.predecessors[target] = append(b.predecessors[target], source)
	}

	b.degree[source]++
	b.degree[target]++
}

// install swaps the accumulated state into g. Caller holds g.mu.
func (b *builder) install(g *Graph) {
	g.nodes = b.nodes
	if g.nodes == nil {
		g.nodes = []domain.Node{}
	}
	g.edges = b.edges
	if g.edges == nil {
		g.edges = []domain.Edge{}
	}
	g.nodeIndex = b.nodeIndex
	g.edgeSet = b.edgeSet
	g.successors = b.successors
	g.predecessors = b.predecessors
	g.degree = b.degree
	g.built = true
	g.version++
}
