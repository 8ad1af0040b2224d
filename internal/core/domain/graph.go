package domain

// NodeKind distinguishes the two node variants in the knowledge graph.
type NodeKind string

// Knowledge graph node kinds.
const (
	// NodeKindDocument is a node representing an indexed document chunk.
	NodeKindDocument NodeKind = "document"

	// NodeKindEntity is a node representing an extracted entity string.
	NodeKindEntity NodeKind = "entity"
)

// Valid reports whether the node kind is one of the known variants.
func (k NodeKind) Valid() bool {
	return k == NodeKindDocument || k == NodeKindEntity
}

// Relation labels a directed knowledge graph edge.
type Relation string

// Knowledge graph edge relations.
const (
	// RelationContains links a document to an entity it mentions.
	RelationContains Relation = "contains"

	// RelationSameSource links two documents sharing a source value.
	RelationSameSource Relation = "same_source"
)

// Valid reports whether the relation is one of the known variants.
func (r Relation) Valid() bool {
	return r == RelationContains || r == RelationSameSource
}

// Node is a knowledge graph node. Identity is the ID: the document id
// for document nodes, the entity string for entity nodes. Re-adding a
// node with the same ID merges instead of duplicating.
type Node struct {
	// ID is the node identity.
	ID string

	// Kind tags the variant.
	Kind NodeKind

	// Preview holds the first PreviewLength characters of the document
	// content. Empty for entity nodes.
	Preview string

	// Metadata carries the document metadata. Nil for entity nodes.
	Metadata map[string]any
}

// Edge is a directed, labeled knowledge graph edge. Duplicate
// (Source, Target, Relation) triples collapse to one edge; the same
// ordered pair may carry edges with different relations.
type Edge struct {
	// Source is the origin node ID.
	Source string

	// Target is the destination node ID.
	Target string

	// Relation labels the edge.
	Relation Relation
}

// GraphStats summarises a built knowledge graph.
type GraphStats struct {
	// NodeCount is the total number of nodes.
	NodeCount int

	// EdgeCount is the total number of edges.
	EdgeCount int

	// DocumentNodes is the number of document-kind nodes.
	DocumentNodes int

	// EntityNodes is the number of entity-kind nodes.
	EntityNodes int
}
