package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

func TestStatsCmd_Use(t *testing.T) {
	assert.Equal(t, "stats", statsCmd.Use)
}

func TestStatsCmd_PrintsIndexStatistics(t *testing.T) {
	_, cleanup := setupTestServices(&mockRetrievalService{stats: domain.EngineStats{
		DocumentCount:    12,
		VectorRows:       12,
		VectorDimensions: 768,
		Graph:            domain.GraphStats{NodeCount: 30, EdgeCount: 44},
	}})
	defer cleanup()

	out, err := executeCommand("stats")

	require.NoError(t, err)
	assert.True(t, containsAll(out,
		"Documents:     12",
		"Vector rows:   12",
		"Dimensions:    768",
		"Graph nodes:   30",
		"Graph edges:   44",
	))
}

func TestStatsCmd_NoIndex(t *testing.T) {
	_, cleanup := setupTestServices(&mockRetrievalService{loadErr: domain.ErrNotFound})
	defer cleanup()

	_, err := executeCommand("stats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index found")
}
