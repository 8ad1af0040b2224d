package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

func TestAsk_NoGenerationService(t *testing.T) {
	engine := builtEngine(t, Config{})

	_, err := engine.Ask(context.Background(), "What is Golang?", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	engine := builtEngine(t, Config{
		Generation: &mockGenerationService{response: "unused"},
	})

	_, err := engine.Ask(context.Background(), "   ", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoMatchingDocuments(t *testing.T) {
	engine := builtEngine(t, Config{
		Generation: &mockGenerationService{response: "unused"},
	})

	// No graph node matches any query token, so graph retrieval finds
	// nothing to ground on.
	_, err := engine.Ask(context.Background(), "quantum physics", domain.SearchOptions{
		Mode: domain.SearchModeGraph,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAsk_GeneratesFromRetrievedContext(t *testing.T) {
	generator := &mockGenerationService{response: "Goroutines and channels."}
	engine := builtEngine(t, Config{Generation: generator})

	answer, err := engine.Ask(context.Background(), "Golang basics", domain.SearchOptions{})

	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "Golang basics", answer.Question)
	assert.Equal(t, "Goroutines and channels.", answer.Text)
	assert.Equal(t, domain.SearchModeHybrid, answer.Mode)
	require.NotEmpty(t, answer.Sources)
	assert.LessOrEqual(t, len(answer.Sources), answerContextSize)
	assert.Equal(t, "a_0", answer.Sources[0].Document.ID)

	assert.Contains(t, generator.lastPrompt, "Context:")
	assert.Contains(t, generator.lastPrompt, "Document 1: Golang Concurrency in practice")
	assert.Contains(t, generator.lastPrompt, "Question: Golang basics")
	assert.Equal(t, answerMaxTokens, generator.lastOptions.MaxTokens)
	assert.InDelta(t, answerTemperature, generator.lastOptions.Temperature, 1e-9)
}

func TestAsk_StripsEchoedPrompt(t *testing.T) {
	generator := &mockGenerationService{
		response: "Question: Golang basics\n\nAnswer: Concurrency primitives.",
	}
	engine := builtEngine(t, Config{Generation: generator})

	answer, err := engine.Ask(context.Background(), "Golang basics", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Concurrency primitives.", answer.Text)
}

func TestAsk_GenerationError(t *testing.T) {
	engine := builtEngine(t, Config{
		Generation: &mockGenerationService{generateErr: errors.New("model offline")},
	})

	_, err := engine.Ask(context.Background(), "Golang basics", domain.SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestAsk_RetrievalErrorSurfaces(t *testing.T) {
	_, embedder := testCorpus()
	engine := newTestEngine(Config{
		Embedding:  embedder,
		Generation: &mockGenerationService{response: "unused"},
	})

	_, err := engine.Ask(context.Background(), "Golang basics", domain.SearchOptions{
		Mode: domain.SearchModeVector,
	})
	assert.ErrorIs(t, err, domain.ErrNotBuilt)
}

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain answer",
			raw:      "Go uses goroutines.",
			expected: "Go uses goroutines.",
		},
		{
			name:     "echoed marker",
			raw:      "stuff\nAnswer: Go uses goroutines.",
			expected: "Go uses goroutines.",
		},
		{
			name:     "multiple markers keep the last",
			raw:      "Answer: draft\nAnswer: final",
			expected: "final",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "  \n Go uses goroutines. \n",
			expected: "Go uses goroutines.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractAnswer(tt.raw))
		})
	}
}

func TestBuildAnswerPrompt(t *testing.T) {
	results := []domain.SearchResult{
		{Document: domain.Document{ID: "a_0", Content: "first chunk"}},
		{Document: domain.Document{ID: "b_0", Content: "second chunk"}},
	}

	prompt := buildAnswerPrompt("what is this?", results)

	assert.Contains(t, prompt, "Document 1: first chunk")
	assert.Contains(t, prompt, "Document 2: second chunk")
	assert.Contains(t, prompt, "Question: what is this?")
	assert.True(t, len(prompt) > 0 && prompt[len(prompt)-1] == ':')
}
