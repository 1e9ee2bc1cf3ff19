package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/llm"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Resilience.RetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Resilience.RetryBackoff)
	assert.Equal(t, 8, cfg.Matching.Concurrency)
	assert.InDelta(t, 0.7, cfg.Matching.ConfidenceThreshold, 1e-9)
	assert.True(t, cfg.Matching.AllowLLM)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "jobmatch.batch", cfg.NATS.Subject)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, "jobmatch.yaml", `
llm:
  provider: ollama
  ollama-url: http://models.internal:11434
  advanced-model: qwen2.5:32b
  timeout: 45s
matching:
  concurrency: 2
  allow-llm: false
server:
  port: 9090
log:
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.Matching.Concurrency)
	assert.False(t, cfg.Matching.AllowLLM)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)

	opts := cfg.LLMOptions()
	assert.Equal(t, llm.ProviderOllama, opts.Provider)
	assert.Equal(t, "http://models.internal:11434", opts.BaseURL)
	assert.Equal(t, "qwen2.5:32b", opts.GetModel(llm.TierAdvanced))
	assert.Equal(t, "qwen2.5:7b", opts.GetModel(llm.TierStandard))
	assert.Equal(t, 45*time.Second, opts.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBMATCH_SERVER_PORT", "7070")
	t.Setenv("JOBMATCH_MATCHING_CONFIDENCE_THRESHOLD", "0.5")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobmatch")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Matching.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/jobmatch", cfg.Database.URL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/jobmatch.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "bad.yaml", `
llm:
  provider: openai
server:
  port: 70000
`)

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "Config.LLM.Provider failed oneof")
	assert.Contains(t, err.Error(), "Config.Server.Port failed lte")
}

func TestValidate_ForceRequiresAllow(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Matching.AllowLLM = false
	cfg.Matching.ForceLLM = true
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "force-llm requires")
}

func TestResilienceOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	opts := cfg.ResilienceOptions()
	assert.Equal(t, 3, opts.RetryMaxAttempts)
	assert.Equal(t, 400*time.Millisecond, opts.RetryMaxBackoff)
	assert.True(t, opts.BreakerEnabled)
	assert.Equal(t, uint32(2), opts.BreakerHalfOpenMaxCalls)
}
