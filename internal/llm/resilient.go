package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/jonathan/job-matcher/internal/resilience"
)

// ResilientClient retries transient provider failures and trips a circuit
// breaker per operation. It also embeds when the wrapped client can.
type ResilientClient struct {
	inner Client
	exec  *resilience.Executor
}

var (
	_ Client   = (*ResilientClient)(nil)
	_ Embedder = (*ResilientClient)(nil)
)

// NewResilientClient wraps inner with the executor
func NewResilientClient(inner Client, exec *resilience.Executor) *ResilientClient {
	return &ResilientClient{inner: inner, exec: exec}
}

// GenerateContent delegates with retries
func (c *ResilientClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	var out string
	err := c.exec.Execute(ctx, "llm.generate_content", func(ctx context.Context) error {
		var err error
		out, err = c.inner.GenerateContent(ctx, prompt, tier)
		return err
	}, ClassifyError)
	return out, err
}

// GenerateJSON delegates with retries
func (c *ResilientClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	var out string
	err := c.exec.Execute(ctx, "llm.generate_json", func(ctx context.Context) error {
		var err error
		out, err = c.inner.GenerateJSON(ctx, prompt, tier)
		return err
	}, ClassifyError)
	return out, err
}

// Embed delegates with retries, or returns ErrEmbeddingUnsupported
func (c *ResilientClient) Embed(ctx context.Context, text string) ([]float32, error) {
	embedder, ok := c.inner.(Embedder)
	if !ok {
		return nil, ErrEmbeddingUnsupported
	}
	var out []float32
	err := c.exec.Execute(ctx, "llm.embed", func(ctx context.Context) error {
		var err error
		out, err = embedder.Embed(ctx, text)
		return err
	}, ClassifyError)
	return out, err
}

// GetModel returns the wrapped client's model for tier
func (c *ResilientClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client
func (c *ResilientClient) Close() error {
	return c.inner.Close()
}

// ClassifyError decides which provider errors are worth retrying. Timeouts,
// rate limits, 5xx responses and network errors are retried; cancellations,
// client errors and unparseable responses are not.
func ClassifyError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if errors.Is(err, ErrEmbeddingUnsupported) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		retry := isRetryableHTTPStatus(statusErr.StatusCode)
		return resilience.ErrorClassification{Retryable: retry, RecordFailure: retry}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var apiErr *APICallError
	if errors.As(err, &apiErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
