package llm

import (
	"context"
	"fmt"
)

// Client generates text from a prompt on one of the configured model tiers.
// Implementations must be safe for concurrent use.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON returns the bare JSON document the model answered with
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GetModel(tier ModelTier) string
	Close() error
}

// Embedder turns text into a fixed-dimension vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewClient builds the client for config.Provider. An empty provider means
// Gemini, which needs apiKey; Ollama needs none.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return newGemini(ctx, config, apiKey)
	case ProviderOllama:
		return NewOllamaClient(config), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
}
