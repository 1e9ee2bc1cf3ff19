package pipeline

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrStoreUnavailable is returned when an operation needs the database but
// none is configured
var ErrStoreUnavailable = errors.New("storage is not configured")

// InputError reports a request that cannot be served as given
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s - %s", e.Field, e.Message)
}

// inputError converts validator failures into an InputError naming the
// first offending field
func inputError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return &InputError{Field: ve.Namespace(), Message: "failed " + ve.Tag()}
	}
	return &InputError{Field: "request", Message: err.Error()}
}
