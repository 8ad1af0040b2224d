package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Documents: []domain.Document{
			{
				ID:        "a_0",
				Content:   "Golang Concurrency in practice",
				Metadata:  map[string]any{domain.MetadataKeySource: "a.txt", "chunk_id": float64(0)},
				Embedding: []float32{0.5, -1.25},
			},
			{
				ID:        "a_1",
				Content:   "Testing Golang services",
				Metadata:  map[string]any{domain.MetadataKeySource: "a.txt", "chunk_id": float64(1)},
				Embedding: []float32{3, 0},
			},
		},
		VectorDimensions: 2,
		VectorIDs:        []string{"a_0", "a_1"},
		VectorRows:       [][]float32{{0.5, -1.25}, {3, 0}},
		Nodes: []domain.Node{
			{ID: "a_0", Kind: domain.NodeKindDocument, Preview: "Golang Concurrency in practice"},
			{ID: "a_1", Kind: domain.NodeKindDocument, Preview: "Testing Golang services"},
			{ID: "Golang", Kind: domain.NodeKindEntity},
		},
		Edges: []domain.Edge{
			{Source: "a_0", Target: "Golang", Relation: domain.RelationContains},
			{Source: "a_1", Target: "Golang", Relation: domain.RelationContains},
			{Source: "a_0", Target: "a_1", Relation: domain.RelationSameSource},
			{Source: "a_1", Target: "a_0", Relation: domain.RelationSameSource},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	snap := testSnapshot()

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, snap.Documents, loaded.Documents)
	assert.Equal(t, snap.VectorDimensions, loaded.VectorDimensions)
	assert.Equal(t, snap.VectorIDs, loaded.VectorIDs)
	assert.Equal(t, snap.VectorRows, loaded.VectorRows)
	assert.Equal(t, snap.Nodes, loaded.Nodes)
	assert.Equal(t, snap.Edges, loaded.Edges)
}

func TestSave_WritesAllArtifacts(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), testSnapshot()))

	for _, name := range []string{manifestFile, documentsFile, vectorsFile, graphFile} {
		_, err := os.Stat(filepath.Join(store.Dir(), name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestSave_PartialSnapshot_OmitsArtifacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := testSnapshot()
	snap.VectorDimensions = 0
	snap.VectorIDs = nil
	snap.VectorRows = nil
	require.NoError(t, store.Save(ctx, snap))

	_, err := os.Stat(filepath.Join(store.Dir(), vectorsFile))
	assert.True(t, os.IsNotExist(err))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.HasVectorIndex())
	assert.True(t, loaded.HasGraph())
}

func TestSave_ReplacesStaleArtifacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	// A later save without a vector index must not leave the old
	// vectors.bin behind.
	snap := testSnapshot()
	snap.VectorDimensions = 0
	snap.VectorIDs = nil
	snap.VectorRows = nil
	require.NoError(t, store.Save(ctx, snap))

	_, err := os.Stat(filepath.Join(store.Dir(), vectorsFile))
	assert.True(t, os.IsNotExist(err))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded.HasVectorIndex())
}

func TestSave_RejectsInconsistentSnapshot(t *testing.T) {
	store := newTestStore(t)

	snap := testSnapshot()
	snap.VectorIDs = append(snap.VectorIDs, "ghost")
	snap.VectorRows = append(snap.VectorRows, []float32{0, 0})

	err := store.Save(context.Background(), snap)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_NoSnapshot(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_UncommittedArtifactsIgnored(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), manifestFile)))

	// Without the manifest the leftover artifacts are not a snapshot.
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_MissingPromisedVectorArtifact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), vectorsFile)))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_TruncatedVectorArtifact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))

	path := filepath.Join(store.Dir(), vectorsFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0600))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_BadVectorMagic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	path := filepath.Join(store.Dir(), vectorsFile)
	require.NoError(t, os.WriteFile(path, []byte("NOPEnope"), 0600))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_MalformedGraphArtifact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	path := filepath.Join(store.Dir(), graphFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_UnknownGraphRelation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot()))
	path := filepath.Join(store.Dir(), graphFile)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": 1,
		"nodes": [{"id": "a_0", "kind": "document"}],
		"edges": [{"source": "a_0", "target": "a_0", "relation": "cites"}]
	}`), 0600))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_DanglingVectorID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Write a valid snapshot, then re-save the documents database with
	// a row removed so the vector artifact references a missing id.
	snap := testSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	manifest, err := readManifest(filepath.Join(store.Dir(), manifestFile))
	require.NoError(t, err)
	require.NoError(t, writeDocuments(ctx,
		filepath.Join(store.Dir(), documentsFile), snap.Documents[:1]))
	require.NoError(t, writeManifest(filepath.Join(store.Dir(), manifestFile), manifest))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoad_EmptyCorpusSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := &domain.Snapshot{
		Documents:        []domain.Document{},
		VectorDimensions: 2,
		VectorIDs:        []string{},
		VectorRows:       [][]float32{},
		Nodes:            []domain.Node{},
		Edges:            []domain.Edge{},
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Documents)
	assert.True(t, loaded.HasVectorIndex())
	assert.True(t, loaded.HasGraph())
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.bin")

	snap := testSnapshot()
	require.NoError(t, writeVectors(path, snap))

	var loaded domain.Snapshot
	require.NoError(t, readVectors(path, &loaded))

	assert.Equal(t, snap.VectorDimensions, loaded.VectorDimensions)
	assert.Equal(t, snap.VectorIDs, loaded.VectorIDs)
	assert.Equal(t, snap.VectorRows, loaded.VectorRows)
}

func TestFloat32Codec(t *testing.T) {
	values := []float32{0, 1.5, -2.25, 3.0e8}

	assert.Equal(t, values, bytesToFloat32Slice(float32SliceToBytes(values)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
