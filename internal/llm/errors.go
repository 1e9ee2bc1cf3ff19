package llm

import (
	"errors"
	"strings"
)

// ErrEmbeddingUnsupported is returned when the configured client cannot embed text
var ErrEmbeddingUnsupported = errors.New("embedding not supported by client")

func withCause(prefix, msg string, cause error) string {
	s := prefix + ": " + msg
	if cause != nil {
		s += ": " + cause.Error()
	}
	return s
}

// APICallError is a provider call that failed before a response arrived.
// The resilient client treats it as transient.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string { return withCause("model call failed", e.Message, e.Cause) }
func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError is a response that arrived but is not what was asked for.
// Retrying the same prompt will not fix it.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string { return withCause("model response unusable", e.Message, e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }

// HTTPStatusError is a non-2xx answer from an HTTP model server
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	msg := "ollama " + e.Operation + " returned " + e.Status
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}
