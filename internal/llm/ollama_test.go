package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOllama(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultOllamaConfig()
	cfg.BaseURL = server.URL + "/"
	return NewOllamaClient(cfg)
}

func TestOllamaClient_GenerateJSON(t *testing.T) {
	var payload map[string]any
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"response": "  ` + "```json\\n{\\\"score\\\": 90}\\n```" + `  "}`))
	})

	out, err := client.GenerateJSON(context.Background(), "rate this", TierAdvanced)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 90}`, out)

	assert.Equal(t, "qwen2.5:14b", payload["model"])
	assert.Equal(t, "rate this", payload["prompt"])
	assert.Equal(t, "json", payload["format"])
	assert.Equal(t, false, payload["stream"])
	options, ok := payload["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.3, options["temperature"], 1e-6)
}

func TestOllamaClient_GenerateContentHasNoFormat(t *testing.T) {
	var payload map[string]any
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`{"response": "plain text"}`))
	})

	out, err := client.GenerateContent(context.Background(), "hi", TierLite)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
	assert.NotContains(t, payload, "format")
}

func TestOllamaClient_Embed(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, []string{"Python后端"}, req.Input)
		_, _ = w.Write([]byte(`{"embeddings": [[0.1, 0.2, 0.3]]}`))
	})

	vec, err := client.Embed(context.Background(), "Python后端")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOllamaClient_EmbedEmptyResult(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": []}`))
	})

	_, err := client.Embed(context.Background(), "x")
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestOllamaClient_HTTPStatusError(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	})

	_, err := client.GenerateJSON(context.Background(), "x", TierStandard)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestOllamaClient_DecodeError(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.GenerateContent(context.Background(), "x", TierStandard)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
