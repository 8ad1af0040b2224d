// Package ai provides factory functions for creating embedding and
// generation adapters from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/quarrylabs/strata-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/quarrylabs/strata-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/quarrylabs/strata-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/quarrylabs/strata-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/quarrylabs/strata-cli/internal/adapters/driven/llm/openai"
	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
)

// Supported provider names.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// EmbeddingSettings selects and configures an embedding provider.
type EmbeddingSettings struct {
	Provider   string
	BaseURL    string
	Model      string
	APIKey     string
	Dimensions int
}

// GenerationSettings selects and configures a generation provider.
type GenerationSettings struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// EmbeddingSettingsFromConfig reads embedding settings from the config store.
func EmbeddingSettingsFromConfig(cfg driven.ConfigStore) EmbeddingSettings {
	return EmbeddingSettings{
		Provider:   cfg.GetString("embedding.provider"),
		BaseURL:    cfg.GetString("embedding.base_url"),
		Model:      cfg.GetString("embedding.model"),
		APIKey:     cfg.GetString("embedding.api_key"),
		Dimensions: cfg.GetInt("embedding.dimensions"),
	}
}

// GenerationSettingsFromConfig reads generation settings from the config store.
func GenerationSettingsFromConfig(cfg driven.ConfigStore) GenerationSettings {
	return GenerationSettings{
		Provider: cfg.GetString("generation.provider"),
		BaseURL:  cfg.GetString("generation.base_url"),
		Model:    cfg.GetString("generation.model"),
		APIKey:   cfg.GetString("generation.api_key"),
	}
}

// NewEmbeddingService creates the embedding service for the configured
// provider. An empty provider defaults to ollama.
func NewEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case "", ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case ProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// NewGenerationService creates the generation service for the configured
// provider. An empty provider defaults to ollama.
func NewGenerationService(settings GenerationSettings) (driven.GenerationService, error) {
	switch settings.Provider {
	case "", ProviderOllama:
		return ollamallm.NewGenerationService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case ProviderOpenAI:
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case ProviderAnthropic:
		return anthropicllm.NewGenerationService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}

// ValidateEmbeddingConfig creates the configured embedding service and
// pings it. Used by 'strata config check' to surface bad credentials or
// an unreachable backend before an index run.
func ValidateEmbeddingConfig(settings EmbeddingSettings) error {
	svc, err := NewEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateGenerationConfig creates the configured generation service and
// pings it.
func ValidateGenerationConfig(settings GenerationSettings) error {
	svc, err := NewGenerationService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
