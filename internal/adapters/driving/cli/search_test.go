package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := executeCommand("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"mode", "limit", "vector-weight", "graph-weight", "json"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	svc, cleanup := setupTestServices(nil)
	defer cleanup()

	out, err := executeCommand("search", "golang concurrency")

	require.NoError(t, err)
	assert.Equal(t, "golang concurrency", svc.lastQuery)
	assert.True(t, containsAll(out, "Results:", "notes_0", "notes_1", "notes.txt"))
}

func TestSearchCmd_ModeAndLimitFlags(t *testing.T) {
	svc, cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := executeCommand("search", "--mode", "graph", "--limit", "3", "query")

	require.NoError(t, err)
	assert.Equal(t, domain.SearchModeGraph, svc.lastOpts.Mode)
	assert.Equal(t, 3, svc.lastOpts.TopK)
}

func TestSearchCmd_WeightFlags(t *testing.T) {
	svc, cleanup := setupTestServices(nil)
	defer cleanup()

	_, err := executeCommand("search", "--vector-weight", "0.9", "--graph-weight", "0.1", "query")

	require.NoError(t, err)
	assert.InDelta(t, 0.9, svc.lastOpts.VectorWeight, 1e-9)
	assert.InDelta(t, 0.1, svc.lastOpts.GraphWeight, 1e-9)
}

func TestSearchCmd_ConfigDefaults(t *testing.T) {
	svc, cleanup := setupTestServices(nil)
	defer cleanup()

	store := configStore.(*mockConfigStore)
	require.NoError(t, store.Set("search.mode", "vector"))
	require.NoError(t, store.Set("search.top_k", int64(7)))

	_, err := executeCommand("search", "query")

	require.NoError(t, err)
	assert.Equal(t, domain.SearchModeVector, svc.lastOpts.Mode)
	assert.Equal(t, 7, svc.lastOpts.TopK)
}

func TestSearchCmd_FlagOverridesConfig(t *testing.T) {
	svc, cleanup := setupTestServices(nil)
	defer cleanup()

	store := configStore.(*mockConfigStore)
	require.NoError(t, store.Set("search.mode", "vector"))

	_, err := executeCommand("search", "--mode", "hybrid", "query")

	require.NoError(t, err)
	assert.Equal(t, domain.SearchModeHybrid, svc.lastOpts.Mode)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices(nil)
	defer cleanup()

	out, err := executeCommand("search", "--json", "query")

	require.NoError(t, err)
	assert.True(t, containsAll(out, "\"ID\"", "\"Score\"", "notes_0"))
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices(&mockRetrievalService{})
	defer cleanup()

	out, err := executeCommand("search", "nothing matches this")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_NoIndex(t *testing.T) {
	_, cleanup := setupTestServices(&mockRetrievalService{loadErr: domain.ErrNotFound})
	defer cleanup()

	_, err := executeCommand("search", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index found")
}

func TestSearchCmd_SearchError(t *testing.T) {
	_, cleanup := setupTestServices(&mockRetrievalService{searchErr: errors.New("embedding server down")})
	defer cleanup()

	_, err := executeCommand("search", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding server down")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := retrievalService
	retrievalService = nil
	defer func() {
		retrievalService = oldService
		resetFlags()
	}()

	_, err := executeCommand("search", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
