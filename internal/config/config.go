// Package config loads service configuration from defaults, an optional
// config file and JOBMATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/resilience"
)

// EnvPrefix prefixes every environment override, e.g. JOBMATCH_LLM_PROVIDER
const EnvPrefix = "JOBMATCH"

// Config is the full service configuration
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Log        LogConfig        `mapstructure:"log"`
	Taxonomy   TaxonomyConfig   `mapstructure:"taxonomy"`
}

// LLMConfig selects the model provider and its models
type LLMConfig struct {
	Provider      string        `mapstructure:"provider" validate:"oneof=gemini ollama"`
	APIKey        string        `mapstructure:"api-key"`
	LiteModel     string        `mapstructure:"lite-model"`
	StandardModel string        `mapstructure:"standard-model"`
	AdvancedModel string        `mapstructure:"advanced-model"`
	EmbedModel    string        `mapstructure:"embed-model"`
	OllamaURL     string        `mapstructure:"ollama-url" validate:"omitempty,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// ResilienceConfig tunes retries and the circuit breaker around model calls
type ResilienceConfig struct {
	RetryAttempts       int           `mapstructure:"retry-attempts" validate:"gte=1,lte=10"`
	RetryBackoff        time.Duration `mapstructure:"retry-backoff" validate:"gt=0"`
	RetryMaxBackoff     time.Duration `mapstructure:"retry-max-backoff" validate:"gtefield=RetryBackoff"`
	RetryMultiplier     float64       `mapstructure:"retry-multiplier" validate:"gte=1"`
	BreakerEnabled      bool          `mapstructure:"breaker-enabled"`
	BreakerMinRequests  uint32        `mapstructure:"breaker-min-requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker-failure-ratio" validate:"gt=0,lte=1"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker-open-timeout" validate:"gt=0"`
}

// MatchingConfig holds extraction and matching defaults
type MatchingConfig struct {
	Concurrency         int     `mapstructure:"concurrency" validate:"gte=1,lte=64"`
	MaxModelCalls       int64   `mapstructure:"max-model-calls" validate:"gte=1"`
	ConfidenceThreshold float64 `mapstructure:"confidence-threshold" validate:"gte=0,lte=1"`
	AllowLLM            bool    `mapstructure:"allow-llm"`
	ForceLLM            bool    `mapstructure:"force-llm"`
}

// DatabaseConfig points at the optional PostgreSQL store
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port      int     `mapstructure:"port" validate:"gte=1,lte=65535"`
	RateLimit float64 `mapstructure:"rate-limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate-burst" validate:"gte=0"`
}

// NATSConfig configures the batch worker queue
type NATSConfig struct {
	URL        string `mapstructure:"url"`
	Subject    string `mapstructure:"subject" validate:"required"`
	QueueGroup string `mapstructure:"queue-group" validate:"required"`
}

// LogConfig selects the log encoder and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// TaxonomyConfig points at an optional YAML overlay for the built-in tables
type TaxonomyConfig struct {
	Overlay string `mapstructure:"overlay"`
}

func setDefaults(v *viper.Viper) {
	res := resilience.DefaultConfig()

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.timeout", 120*time.Second)
	// empty model names resolve to the provider defaults in LLMOptions
	for _, key := range []string{"api-key", "lite-model", "standard-model", "advanced-model", "embed-model", "ollama-url"} {
		v.SetDefault("llm."+key, "")
	}

	v.SetDefault("resilience.retry-attempts", res.RetryMaxAttempts)
	v.SetDefault("resilience.retry-backoff", res.RetryInitialBackoff)
	v.SetDefault("resilience.retry-max-backoff", res.RetryMaxBackoff)
	v.SetDefault("resilience.retry-multiplier", res.RetryMultiplier)
	v.SetDefault("resilience.breaker-enabled", res.BreakerEnabled)
	v.SetDefault("resilience.breaker-min-requests", res.BreakerMinRequests)
	v.SetDefault("resilience.breaker-failure-ratio", res.BreakerFailureRatio)
	v.SetDefault("resilience.breaker-open-timeout", res.BreakerOpenTimeout)

	v.SetDefault("matching.concurrency", 8)
	v.SetDefault("matching.max-model-calls", 4)
	v.SetDefault("matching.confidence-threshold", 0.7)
	v.SetDefault("matching.allow-llm", true)
	v.SetDefault("matching.force-llm", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate-limit", 10.0)
	v.SetDefault("server.rate-burst", 20)

	v.SetDefault("nats.subject", "jobmatch.batch")
	v.SetDefault("nats.queue-group", "jobmatch-workers")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("taxonomy.overlay", "")
	v.SetDefault("database.url", "")
}

// Load reads configuration. path may be empty, in which case jobmatch.yaml in
// the working directory is used when present. Environment variables override
// file values: JOBMATCH_LLM_API_KEY sets llm.api-key. GEMINI_API_KEY and
// DATABASE_URL are honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api-key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key environment: %w", err)
	}
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding database environment: %w", err)
	}
	if err := v.BindEnv("nats.url", EnvPrefix+"_NATS_URL", "NATS_URL"); err != nil {
		return nil, fmt.Errorf("binding nats environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("jobmatch")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks value ranges and cross-field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.Matching.ForceLLM && !c.Matching.AllowLLM {
		return errors.New("config error: matching.force-llm requires matching.allow-llm")
	}
	return nil
}

// LLMOptions builds the model client configuration, filling provider defaults
// for any model left empty
func (c *Config) LLMOptions() *llm.Config {
	var out *llm.Config
	if c.LLM.Provider == string(llm.ProviderOllama) {
		out = llm.DefaultOllamaConfig()
		if c.LLM.OllamaURL != "" {
			out.BaseURL = c.LLM.OllamaURL
		}
		if c.LLM.Timeout > 0 {
			out.Timeout = c.LLM.Timeout
		}
	} else {
		out = llm.DefaultGeminiConfig()
	}

	for tier, name := range map[llm.ModelTier]string{
		llm.TierLite:     c.LLM.LiteModel,
		llm.TierStandard: c.LLM.StandardModel,
		llm.TierAdvanced: c.LLM.AdvancedModel,
	} {
		if name != "" {
			out.Models[tier] = name
		}
	}
	if c.LLM.EmbedModel != "" {
		out.EmbedModel = c.LLM.EmbedModel
	}
	return out
}

// ResilienceOptions converts the retry and breaker settings
func (c *Config) ResilienceOptions() resilience.Config {
	def := resilience.DefaultConfig()
	return resilience.Config{
		RetryMaxAttempts:        c.Resilience.RetryAttempts,
		RetryInitialBackoff:     c.Resilience.RetryBackoff,
		RetryMaxBackoff:         c.Resilience.RetryMaxBackoff,
		RetryMultiplier:         c.Resilience.RetryMultiplier,
		BreakerEnabled:          c.Resilience.BreakerEnabled,
		BreakerMinRequests:      c.Resilience.BreakerMinRequests,
		BreakerFailureRatio:     c.Resilience.BreakerFailureRatio,
		BreakerOpenTimeout:      c.Resilience.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: def.BreakerHalfOpenMaxCalls,
	}
}
