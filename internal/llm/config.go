// Package llm provides the language-model and embedding collaborators used by
// extraction and precise matching, behind provider-neutral interfaces.
package llm

import (
	"maps"
	"time"
)

// ModelTier selects how capable, and how expensive, a model is
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard" // document extraction
	TierAdvanced ModelTier = "advanced" // precise matching
)

// Provider names a model backend
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// Config holds the model configuration for the application
type Config struct {
	Provider     Provider
	Models       map[ModelTier]string
	Temperatures map[ModelTier]float32
	EmbedModel   string
	BaseURL      string        // Ollama only
	Timeout      time.Duration // Ollama HTTP timeout
}

// DefaultTemperatures keeps extraction near deterministic; the advanced tier
// writes prose and gets more room.
func DefaultTemperatures() map[ModelTier]float32 {
	return map[ModelTier]float32{TierLite: 0.1, TierStandard: 0.1, TierAdvanced: 0.3}
}

// DefaultConfig is DefaultGeminiConfig
func DefaultConfig() *Config { return DefaultGeminiConfig() }

// DefaultGeminiConfig maps the tiers onto the Gemini 2.5 family
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperatures: DefaultTemperatures(),
		EmbedModel:   "text-embedding-004",
	}
}

// DefaultOllamaConfig targets a local Ollama server running Qwen 2.5, which
// handles Chinese postings well at small sizes.
func DefaultOllamaConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Models: map[ModelTier]string{
			TierLite:     "qwen2.5:3b",
			TierStandard: "qwen2.5:7b",
			TierAdvanced: "qwen2.5:14b",
		},
		Temperatures: DefaultTemperatures(),
		EmbedModel:   "all-minilm",
		BaseURL:      "http://localhost:11434",
		Timeout:      2 * time.Minute,
	}
}

// tierFallback is tried in order when a tier has no model of its own
var tierFallback = []ModelTier{TierStandard, TierLite}

// GetModel returns the model for tier, falling back to the standard and then
// the lite model. It returns "" when none is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range append([]ModelTier{tier}, tierFallback...) {
		if name := c.Models[t]; name != "" {
			return name
		}
	}
	return ""
}

// Temperature returns the sampling temperature for a tier, 0.1 when unset
func (c *Config) Temperature(tier ModelTier) float32 {
	if t, ok := c.Temperatures[tier]; ok {
		return t
	}
	return 0.1
}

// WithModel returns a copy of c that uses model for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = make(map[ModelTier]string, 1)
	}
	out.Models[tier] = model
	return &out
}
