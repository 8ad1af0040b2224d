// Package flat provides an exact vector index backed by a linear scan.
//
// Distances are exact squared Euclidean, with no approximation. This
// bounds the index to corpora a linear scan can serve within the target
// latency: a deliberate choice for a single-node, moderate-corpus design.
package flat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores embedding rows positionally aligned with document ids.
// All rows share the dimensionality fixed at construction. Safe for
// concurrent use: Build swaps contents under a write lock, searches
// share a read lock.
type Index struct {
	mu      sync.RWMutex
	dim     int
	ids     []string
	vectors [][]float32
	built   bool
}

// New creates an empty, unbuilt index with the given dimensionality.
func New(dimensions int) *Index {
	return &Index{dim: dimensions}
}

// Build replaces the index contents. Vectors must all match the index
// dimensionality; on mismatch the previous contents are untouched.
func (ix *Index) Build(ctx context.Context, ids []string, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("%w: %d ids for %d vectors", domain.ErrInvalidInput, len(ids), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != ix.dim {
			return fmt.Errorf("%w: row %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(vec), ix.dim)
		}
	}

	// Copy rows so later caller mutations cannot corrupt the index.
	newIDs := make([]string, len(ids))
	copy(newIDs, ids)
	newVectors := make([][]float32, len(vectors))
	for i, vec := range vectors {
		row := make([]float32, ix.dim)
		copy(row, vec)
		newVectors[i] = row
	}

	ix.mu.Lock()
	ix.ids = newIDs
	ix.vectors = newVectors
	ix.built = true
	ix.mu.Unlock()

	return nil
}

// Search returns the k rows nearest to query by squared Euclidean
// distance, ascending, ties broken by insertion position. k larger
// than the row count is clamped.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.built {
		return nil, domain.ErrNotBuilt
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return []driven.VectorHit{}, nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	hits := make([]driven.VectorHit, len(ix.vectors))
	for i, row := range ix.vectors {
		hits[i] = driven.VectorHit{
			DocID:    ix.ids[i],
			Distance: squaredDistance(query, row),
		}
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	return hits[:k], nil
}

// Dimensions returns the configured vector dimensionality.
func (ix *Index) Dimensions() int {
	return ix.dim
}

// Rows returns copies of the indexed ids and vectors in row order.
// Both are nil before the first Build.
func (ix *Index) Rows() ([]string, [][]float32) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.built {
		return nil, nil
	}

	ids := make([]string, len(ix.ids))
	copy(ids, ix.ids)
	vectors := make([][]float32, len(ix.vectors))
	for i, row := range ix.vectors {
		vec := make([]float32, len(row))
		copy(vec, row)
		vectors[i] = vec
	}
	return ids, vectors
}

// squaredDistance computes the squared Euclidean distance between two
// vectors of equal length. Accumulates in float64 for precision.
func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
