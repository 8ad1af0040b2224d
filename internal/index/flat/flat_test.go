package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()

	ix := New(3)
	err := ix.Build(context.Background(),
		[]string{"doc_0", "doc_1", "doc_2", "doc_3"},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
			{1, 1, 0},
		})
	require.NoError(t, err)
	return ix
}

// TestSearch_BeforeBuild tests that searching an unbuilt index fails
func TestSearch_BeforeBuild(t *testing.T) {
	ix := New(3)

	_, err := ix.Search(context.Background(), []float32{1, 0, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}

// TestBuild_DimensionMismatch tests rejection of inconsistent rows
func TestBuild_DimensionMismatch(t *testing.T) {
	ix := New(3)

	err := ix.Build(context.Background(),
		[]string{"a", "b"},
		[][]float32{{1, 0, 0}, {1, 0}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// Failed build must leave the index unbuilt
	_, err = ix.Search(context.Background(), []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}

// TestBuild_MisalignedInput tests id/vector count disagreement
func TestBuild_MisalignedInput(t *testing.T) {
	ix := New(3)

	err := ix.Build(context.Background(), []string{"a"}, [][]float32{{1, 0, 0}, {0, 1, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestSearch_ExactNearest tests exact self-retrieval at distance zero
func TestSearch_ExactNearest(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Search(context.Background(), []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc_1", hits[0].DocID)
	assert.Equal(t, 0.0, hits[0].Distance)
}

// TestSearch_SortedAscending tests result ordering over the full corpus
func TestSearch_SortedAscending(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Search(context.Background(), []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	require.Len(t, hits, 4)

	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
	assert.Equal(t, "doc_0", hits[0].DocID)
}

// TestSearch_TieBreakByPosition tests stable ordering for equal distances
func TestSearch_TieBreakByPosition(t *testing.T) {
	ix := New(2)
	// doc_1 and doc_2 are equidistant from the query
	err := ix.Build(context.Background(),
		[]string{"doc_0", "doc_1", "doc_2"},
		[][]float32{{5, 5}, {1, 0}, {0, 1}})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc_1", hits[0].DocID)
	assert.Equal(t, "doc_2", hits[1].DocID)
	assert.Equal(t, hits[0].Distance, hits[1].Distance)
}

// TestSearch_KClamped tests k larger than the corpus
func TestSearch_KClamped(t *testing.T) {
	ix := buildTestIndex(t)

	hits, err := ix.Search(context.Background(), []float32{1, 0, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

// TestSearch_QueryDimensionMismatch tests query vector validation
func TestSearch_QueryDimensionMismatch(t *testing.T) {
	ix := buildTestIndex(t)

	_, err := ix.Search(context.Background(), []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

// TestBuild_Empty tests that an empty corpus builds a searchable index
func TestBuild_Empty(t *testing.T) {
	ix := New(3)
	require.NoError(t, ix.Build(context.Background(), nil, nil))

	hits, err := ix.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

// TestBuild_Replaces tests that rebuilding discards previous contents
func TestBuild_Replaces(t *testing.T) {
	ix := buildTestIndex(t)

	err := ix.Build(context.Background(), []string{"solo"}, [][]float32{{0, 0, 0}})
	require.NoError(t, err)

	hits, err := ix.Search(context.Background(), []float32{0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "solo", hits[0].DocID)
}

// TestRows_RoundTrip tests row export for persistence
func TestRows_RoundTrip(t *testing.T) {
	ix := buildTestIndex(t)

	ids, vectors := ix.Rows()
	require.Len(t, ids, 4)
	require.Len(t, vectors, 4)
	assert.Equal(t, []string{"doc_0", "doc_1", "doc_2", "doc_3"}, ids)
	assert.Equal(t, []float32{1, 1, 0}, vectors[3])

	// Mutating the export must not affect the index
	vectors[0][0] = 99
	hits, err := ix.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "doc_0", hits[0].DocID)
	assert.Equal(t, 0.0, hits[0].Distance)
}

// TestRows_Unbuilt tests that an unbuilt index exports nothing
func TestRows_Unbuilt(t *testing.T) {
	ids, vectors := New(3).Rows()
	assert.Nil(t, ids)
	assert.Nil(t, vectors)
}
