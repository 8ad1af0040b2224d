package driven

import "context"

// VectorIndex provides exact vector similarity search.
// Rows are positionally aligned with document ids: row i of the vector
// block belongs to ids[i]. Row order carries no search semantics but
// must be stable across save/load for the correspondence to hold.
type VectorIndex interface {
	// Build replaces the index contents with the given rows. Every
	// vector must match the index dimensionality; a mismatch fails
	// with domain.ErrDimensionMismatch and leaves the previous
	// contents untouched. An empty build is valid and yields an index
	// of size zero.
	Build(ctx context.Context, ids []string, vectors [][]float32) error

	// Search finds the k rows nearest to the query vector by squared
	// Euclidean distance, sorted ascending, ties broken by insertion
	// position. k larger than the row count is clamped. Fails with
	// domain.ErrNotBuilt before the first Build.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Dimensions returns the configured vector dimensionality.
	Dimensions() int

	// Rows returns the indexed ids and vectors in row order, for
	// persistence. Both are nil before the first Build.
	Rows() ([]string, [][]float32)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// DocID is the matched document id.
	DocID string

	// Distance is the squared Euclidean distance to the query.
	Distance float64
}
