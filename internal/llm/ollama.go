package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaClient implements Client and Embedder against a local Ollama server
type OllamaClient struct {
	baseURL    string
	config     *Config
	httpClient *http.Client
}

// NewOllamaClient creates a client for config.BaseURL
func NewOllamaClient(config *Config) *OllamaClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateContent generates free text
func (c *OllamaClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates a response constrained to JSON
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Embed calls /api/embed for a single input
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.config.EmbedModel == "" {
		return nil, ErrEmbeddingUnsupported
	}
	request := map[string]any{
		"model": c.config.EmbedModel,
		"input": []string{text},
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embeddings) == 0 || len(response.Embeddings[0]) == 0 {
		return nil, &ParseError{Message: "empty embedding result"}
	}
	return response.Embeddings[0], nil
}

// GetModel returns the model name for a tier
func (c *OllamaClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no resources
func (c *OllamaClient) Close() error {
	return nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string, tier ModelTier, jsonFormat bool) (string, error) {
	model := c.config.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	reqBody := map[string]any{
		"model":   model,
		"prompt":  prompt,
		"stream":  false,
		"options": map[string]any{"temperature": c.config.Temperature(tier)},
	}
	if jsonFormat {
		reqBody["format"] = "json"
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *OllamaClient) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APICallError{Message: "ollama " + operation, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(msg),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Message: "decode " + operation + " response", Cause: err}
	}
	return nil
}
