package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGeminiConfig_Tiers(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, ProviderGemini, cfg.Provider)
	for tier, want := range map[ModelTier]string{
		TierLite:     "gemini-2.5-flash-lite",
		TierStandard: "gemini-2.5-flash",
		TierAdvanced: "gemini-2.5-pro",
	} {
		assert.Equal(t, want, cfg.GetModel(tier), tier)
	}
	assert.Equal(t, "text-embedding-004", cfg.EmbedModel)
}

func TestDefaultOllamaConfig_Local(t *testing.T) {
	cfg := DefaultOllamaConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
	assert.Equal(t, "qwen2.5:7b", cfg.GetModel(TierStandard))
}

func TestGetModel_FallsBackThroughTiers(t *testing.T) {
	onlyLite := &Config{Models: map[ModelTier]string{TierLite: "small"}}
	assert.Equal(t, "small", onlyLite.GetModel(TierAdvanced))

	withStandard := &Config{Models: map[ModelTier]string{TierLite: "small", TierStandard: "mid"}}
	assert.Equal(t, "mid", withStandard.GetModel(TierAdvanced))

	assert.Empty(t, (&Config{}).GetModel(TierStandard))
}

func TestTemperature_Default(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 0.3, cfg.Temperature(TierAdvanced), 1e-6)
	assert.InDelta(t, 0.1, (&Config{}).Temperature(TierAdvanced), 1e-6)
}

func TestWithModel_CopiesModels(t *testing.T) {
	base := DefaultConfig()
	custom := base.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", base.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", custom.GetModel(TierAdvanced))
	assert.Equal(t, base.EmbedModel, custom.EmbedModel)

	assert.Equal(t, "x", (&Config{}).WithModel(TierLite, "x").GetModel(TierLite))
}

func TestNewClient_Providers(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultOllamaConfig(), "")
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)

	_, err = NewClient(context.Background(), DefaultGeminiConfig(), "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, "unsupported")
}
