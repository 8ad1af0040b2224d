package domain

// SearchMode selects which retrieval method answers a query.
type SearchMode string

// Search modes.
const (
	// SearchModeVector uses exact vector similarity search only.
	SearchModeVector SearchMode = "vector"

	// SearchModeGraph uses knowledge graph scoring only.
	SearchModeGraph SearchMode = "graph"

	// SearchModeHybrid fuses vector and graph rankings with
	// configurable weights.
	SearchModeHybrid SearchMode = "hybrid"
)

// Valid reports whether the mode is one of the known variants.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeVector, SearchModeGraph, SearchModeHybrid:
		return true
	}
	return false
}

// Default hybrid fusion weights, matching the historical blend of
// 70% vector and 30% graph contribution.
const (
	DefaultVectorWeight = 0.7
	DefaultGraphWeight  = 0.3
)

// DefaultTopK is the default number of results returned by a query.
const DefaultTopK = 5

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Mode selects the retrieval method. Defaults to hybrid.
	Mode SearchMode

	// TopK is the maximum number of results. Defaults to DefaultTopK.
	TopK int

	// VectorWeight scales the vector contribution in hybrid mode.
	// Weights are not required to sum to 1; only their relative
	// magnitude matters. Callers wanting a convex blend must
	// normalise themselves.
	VectorWeight float64

	// GraphWeight scales the graph contribution in hybrid mode.
	GraphWeight float64
}

// Normalised returns a copy with defaults applied. An unknown non-empty
// mode is left as is for the caller to reject.
func (o SearchOptions) Normalised() SearchOptions {
	if o.Mode == "" {
		o.Mode = SearchModeHybrid
	}
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.VectorWeight == 0 && o.GraphWeight == 0 {
		o.VectorWeight = DefaultVectorWeight
		o.GraphWeight = DefaultGraphWeight
	}
	return o
}

// SearchResult is a single retrieval hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the mode-specific relevance score. For vector mode this
	// is the squared Euclidean distance (lower is better); for graph
	// and hybrid modes higher is better.
	Score float64
}

// Answer is the result of retrieval followed by generation.
type Answer struct {
	// Question is the original question text.
	Question string

	// Text is the generated answer.
	Text string

	// Mode is the retrieval mode that produced the context.
	Mode SearchMode

	// Sources are the documents used as generation context.
	Sources []SearchResult
}

// EngineStats summarises the engine's built state.
type EngineStats struct {
	// DocumentCount is the size of the loaded corpus.
	DocumentCount int

	// VectorRows is the number of indexed vectors; zero when the
	// vector index is unbuilt.
	VectorRows int

	// VectorDimensions is the index dimensionality.
	VectorDimensions int

	// Graph summarises the knowledge graph.
	Graph GraphStats
}
