package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
	"github.com/quarrylabs/strata-cli/internal/logger"
)

const (
	// answerContextSize is how many retrieved documents are shown to
	// the language model as grounding context.
	answerContextSize = 3

	answerMaxTokens   = 200
	answerTemperature = 0.7
)

// Ask retrieves context for the question and asks the configured
// language model to answer from it. The answer carries the documents
// it was grounded on so callers can cite them.
func (e *RetrievalEngine) Ask(
	ctx context.Context, question string, opts domain.SearchOptions,
) (*domain.Answer, error) {
	if e.generation == nil {
		return nil, domain.ErrGenerationUnavailable
	}

	logger.Section("Answer Generation")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	opts = opts.Normalised()
	results, err := e.Search(ctx, question, opts)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no documents match the question", domain.ErrNotFound)
	}

	if len(results) > answerContextSize {
		results = results[:answerContextSize]
	}
	logger.Debug("Grounding answer on %d documents", len(results))

	prompt := buildAnswerPrompt(question, results)

	raw, err := e.generation.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Question: question,
		Text:     extractAnswer(raw),
		Mode:     opts.Mode,
		Sources:  results,
	}, nil
}

// buildAnswerPrompt lays the retrieved documents out as numbered
// context ahead of the question.
func buildAnswerPrompt(question string, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Based on the following context, answer the question.\n\n")
	b.WriteString("Context:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "Document %d: %s\n", i+1, r.Document.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// extractAnswer strips any echoed prompt scaffolding. Models that
// repeat the prompt include a final "Answer:" marker; everything after
// the last occurrence is the answer proper.
func extractAnswer(raw string) string {
	const marker = "Answer:"
	if i := strings.LastIndex(raw, marker); i >= 0 {
		raw = raw[i+len(marker):]
	}
	return strings.TrimSpace(raw)
}
