package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/fetch"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

// ErrValidation is a request the server could not make sense of
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// HTTPStatus maps an error from the service layer to a response status.
// Anything unrecognized, nil included, is a 500.
func HTTPStatus(err error) int {
	var (
		badRequest *ErrValidation
		badInput   *pipeline.InputError
		upstream   *fetch.Error
	)
	switch {
	case err == nil:
	case errors.As(err, &badRequest), errors.As(err, &badInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
