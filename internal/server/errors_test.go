package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/fetch"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

func TestErrValidation_Message(t *testing.T) {
	err := &ErrValidation{Field: "url", Message: "required"}
	assert.Equal(t, "invalid url: required", err.Error())
}

func TestHTTPStatus_Mapping(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"bad body":          {&ErrValidation{Field: "body", Message: "EOF"}, http.StatusBadRequest},
		"bad input":         {fmt.Errorf("match: %w", &pipeline.InputError{Field: "resume", Message: "missing"}), http.StatusBadRequest},
		"unknown record":    {fmt.Errorf("resume x: %w", db.ErrNotFound), http.StatusNotFound},
		"no database":       {pipeline.ErrStoreUnavailable, http.StatusServiceUnavailable},
		"model too slow":    {fmt.Errorf("precise: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		"job page failed":   {&fetch.Error{URL: "https://example.com", Message: "HTTP status 404"}, http.StatusBadGateway},
		"anything else":     {assert.AnError, http.StatusInternalServerError},
		"nil is not a pass": {nil, http.StatusInternalServerError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
