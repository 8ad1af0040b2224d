package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	file "github.com/quarrylabs/strata-cli/internal/adapters/driven/config/file"
)

func TestNewEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    EmbeddingSettings
		wantModel   string
		errContains string
	}{
		{
			name:      "empty provider defaults to ollama",
			settings:  EmbeddingSettings{},
			wantModel: "nomic-embed-text",
		},
		{
			name:      "ollama provider with custom model",
			settings:  EmbeddingSettings{Provider: ProviderOllama, Model: "mxbai-embed-large", Dimensions: 1024},
			wantModel: "mxbai-embed-large",
		},
		{
			name:      "openai provider",
			settings:  EmbeddingSettings{Provider: ProviderOpenAI, APIKey: "sk-test"},
			wantModel: "text-embedding-3-small",
		},
		{
			name:        "openai without api key",
			settings:    EmbeddingSettings{Provider: ProviderOpenAI},
			errContains: "API key is required",
		},
		{
			name:        "anthropic has no embeddings",
			settings:    EmbeddingSettings{Provider: ProviderAnthropic, APIKey: "sk-test"},
			errContains: "does not support embeddings",
		},
		{
			name:        "unknown provider",
			settings:    EmbeddingSettings{Provider: "cohere"},
			errContains: "unsupported embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEmbeddingService(tt.settings)

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Positive(t, svc.Dimensions())
		})
	}
}

func TestNewGenerationService(t *testing.T) {
	tests := []struct {
		name        string
		settings    GenerationSettings
		wantModel   string
		errContains string
	}{
		{
			name:      "empty provider defaults to ollama",
			settings:  GenerationSettings{},
			wantModel: "llama3.2",
		},
		{
			name:      "openai provider",
			settings:  GenerationSettings{Provider: ProviderOpenAI, APIKey: "sk-test"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic provider",
			settings:  GenerationSettings{Provider: ProviderAnthropic, APIKey: "sk-test"},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name:        "anthropic without api key",
			settings:    GenerationSettings{Provider: ProviderAnthropic},
			errContains: "API key is required",
		},
		{
			name:        "unknown provider",
			settings:    GenerationSettings{Provider: "mistral"},
			errContains: "unsupported generation provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewGenerationService(tt.settings)

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestSettingsFromConfig(t *testing.T) {
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-large"))
	require.NoError(t, store.Set("embedding.api_key", "sk-embed"))
	require.NoError(t, store.Set("embedding.dimensions", int64(3072)))
	require.NoError(t, store.Set("generation.provider", "anthropic"))
	require.NoError(t, store.Set("generation.base_url", "http://proxy:8080"))
	require.NoError(t, store.Set("generation.api_key", "sk-gen"))

	embed := EmbeddingSettingsFromConfig(store)
	assert.Equal(t, EmbeddingSettings{
		Provider:   "openai",
		Model:      "text-embedding-3-large",
		APIKey:     "sk-embed",
		Dimensions: 3072,
	}, embed)

	gen := GenerationSettingsFromConfig(store)
	assert.Equal(t, GenerationSettings{
		Provider: "anthropic",
		BaseURL:  "http://proxy:8080",
		APIKey:   "sk-gen",
	}, gen)
}

func TestSettingsFromConfigDefaults(t *testing.T) {
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, EmbeddingSettings{}, EmbeddingSettingsFromConfig(store))
	assert.Equal(t, GenerationSettings{}, GenerationSettingsFromConfig(store))
}
