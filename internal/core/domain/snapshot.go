package domain

// Snapshot is one consistent engine state: the document set plus the
// two derived indices, suitable for persistence as a single logical
// unit. Components that were never built are represented by nil slices
// and are restored as "not built".
type Snapshot struct {
	// Documents is the corpus in loader order, embeddings attached.
	Documents []Document

	// VectorDimensions is the vector index dimensionality. Zero when
	// the vector index is unbuilt.
	VectorDimensions int

	// VectorIDs are the indexed document ids in row order, positionally
	// aligned with VectorRows. Nil when the vector index is unbuilt.
	VectorIDs []string

	// VectorRows are the indexed embedding vectors in row order.
	VectorRows [][]float32

	// Nodes are the knowledge graph nodes in insertion order. Nil when
	// the graph is unbuilt.
	Nodes []Node

	// Edges are the knowledge graph edges in insertion order.
	Edges []Edge
}

// HasVectorIndex reports whether the snapshot carries a built vector index.
func (s *Snapshot) HasVectorIndex() bool {
	return s.VectorIDs != nil
}

// HasGraph reports whether the snapshot carries a built knowledge graph.
func (s *Snapshot) HasGraph() bool {
	return s.Nodes != nil
}

// Validate checks referential integrity between the three artifacts:
// every vector row id and every document-kind graph node must reference
// a document in the document set. Violations return ErrCorruptIndex.
func (s *Snapshot) Validate() error {
	if len(s.VectorIDs) != len(s.VectorRows) {
		return ErrCorruptIndex
	}

	ids := make(map[string]struct{}, len(s.Documents))
	for i := range s.Documents {
		ids[s.Documents[i].ID] = struct{}{}
	}

	for _, id := range s.VectorIDs {
		if _, ok := ids[id]; !ok {
			return ErrCorruptIndex
		}
	}

	for i := range s.Nodes {
		if s.Nodes[i].Kind != NodeKindDocument {
			continue
		}
		if _, ok := ids[s.Nodes[i].ID]; !ok {
			return ErrCorruptIndex
		}
	}

	return nil
}
