package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

type failingRunner struct{}

func (failingRunner) Batch(context.Context, pipeline.BatchRequest) (*pipeline.BatchResult, error) {
	return nil, errors.New("boom")
}

func decodeResponse(t *testing.T, data []byte) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestHandle_RunsBatch(t *testing.T) {
	svc := pipeline.New(pipeline.Config{
		Extractor: extraction.New(extraction.Config{}),
		Matcher:   matching.New(matching.Config{}),
	})
	req := pipeline.BatchRequest{
		ResumeInput: pipeline.ResumeInput{Resume: &types.ResumeProfile{CurrentPosition: "Java开发工程师"}},
		Jobs: []pipeline.BatchJob{
			{ID: "java", Job: &types.JobProfile{Title: "Java后端工程师"}},
			{ID: "hr", Job: &types.JobProfile{Title: "人力资源专员"}},
		},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	resp := decodeResponse(t, handle(context.Background(), svc, data, zap.NewNop()))
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Matches, 2)
	assert.Equal(t, "java", resp.Result.Matches[0].JobID)
}

func TestHandle_Errors(t *testing.T) {
	resp := decodeResponse(t, handle(context.Background(), failingRunner{}, []byte("{bad"), zap.NewNop()))
	assert.Contains(t, resp.Error, "invalid batch request")
	assert.Nil(t, resp.Result)

	resp = decodeResponse(t, handle(context.Background(), failingRunner{}, []byte(`{"jobs":[]}`), zap.NewNop()))
	assert.Equal(t, "boom", resp.Error)
}

func TestClassifyNATSError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"nil", nil, false, false},
		{"cancelled", context.Canceled, false, false},
		{"no responders", fmt.Errorf("nats request: %w", nats.ErrNoResponders), true, true},
		{"timeout", nats.ErrTimeout, true, true},
		{"other", errors.New("bad payload"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := classifyNATSError(tt.err)
			assert.Equal(t, tt.retryable, c.Retryable)
			assert.Equal(t, tt.record, c.RecordFailure)
		})
	}
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Message: "invalid input"}
	assert.Equal(t, "worker: invalid input", err.Error())
}
