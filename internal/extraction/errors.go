package extraction

import (
	"errors"
	"fmt"
)

// ErrNoModel is returned by the model path when the Extractor has no client
var ErrNoModel = errors.New("no language model configured")

// ValidationError reports a model response that parsed but does not fit the expected shape
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s extraction: validation error", e.Kind)
	if e.Field != "" {
		msg += " in " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
