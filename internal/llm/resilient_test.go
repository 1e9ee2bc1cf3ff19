package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/resilience"
)

// scriptedClient returns the queued responses/errors in order
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedClient) next() (string, error) {
	i := c.calls
	c.calls++
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (c *scriptedClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.next()
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.next()
}

func (c *scriptedClient) GetModel(ModelTier) string { return "scripted" }
func (c *scriptedClient) Close() error              { return nil }

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		BreakerEnabled:      false,
	}, nil)
}

func TestResilientClient_RetriesTransientErrors(t *testing.T) {
	inner := &scriptedClient{
		responses: []string{"", "", `{"ok": true}`},
		errs: []error{
			&HTTPStatusError{Operation: "generate", StatusCode: http.StatusServiceUnavailable, Status: "503"},
			&APICallError{Message: "timeout"},
		},
	}
	client := NewResilientClient(inner, testExecutor())

	out, err := client.GenerateJSON(context.Background(), "p", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 3, inner.calls)
}

func TestResilientClient_DoesNotRetryClientErrors(t *testing.T) {
	inner := &scriptedClient{
		errs: []error{&HTTPStatusError{Operation: "generate", StatusCode: http.StatusBadRequest, Status: "400"}},
	}
	client := NewResilientClient(inner, testExecutor())

	_, err := client.GenerateContent(context.Background(), "p", TierStandard)
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestResilientClient_EmbedUnsupported(t *testing.T) {
	client := NewResilientClient(&scriptedClient{}, testExecutor())
	_, err := client.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmbeddingUnsupported)
	assert.Equal(t, "scripted", client.GetModel(TierLite))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{name: "canceled", err: context.Canceled},
		{name: "deadline", err: context.DeadlineExceeded},
		{name: "rate limited", err: &HTTPStatusError{StatusCode: http.StatusTooManyRequests}, retryable: true, record: true},
		{name: "bad request", err: &HTTPStatusError{StatusCode: http.StatusBadRequest}},
		{name: "parse", err: &ParseError{Message: "bad json"}},
		{name: "api call", err: &APICallError{Message: "boom"}, retryable: true, record: true},
		{name: "unknown", err: errors.New("boom"), record: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := ClassifyError(tt.err)
			assert.Equal(t, tt.retryable, class.Retryable)
			assert.Equal(t, tt.record, class.RecordFailure)
		})
	}
}

func TestChatJSON(t *testing.T) {
	client := &scriptedClient{responses: []string{"Sure!\n```json\n{\"score\": 88, \"tags\": [\"go\"]}\n```"}}

	var out struct {
		Score float64  `json:"score"`
		Tags  []string `json:"tags"`
	}
	require.NoError(t, ChatJSON(context.Background(), client, "p", TierStandard, &out))
	assert.Equal(t, 88.0, out.Score)
	assert.Equal(t, []string{"go"}, out.Tags)
}

func TestChatJSON_Errors(t *testing.T) {
	var out map[string]any

	err := ChatJSON(context.Background(), &scriptedClient{responses: []string{"not json at all"}}, "p", TierStandard, &out)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))

	err = ChatJSON(context.Background(), &scriptedClient{responses: []string{"   "}}, "p", TierStandard, &out)
	assert.True(t, errors.As(err, &parseErr))

	callErr := &APICallError{Message: "down"}
	err = ChatJSON(context.Background(), &scriptedClient{errs: []error{callErr}}, "p", TierStandard, &out)
	assert.ErrorIs(t, err, callErr)
}
