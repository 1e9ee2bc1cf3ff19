// Package schemas checks model output against the JSON Schemas the extractors,
// the precise matcher and the advisor expect. The schemas are compiled into the binary.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Name is the file name of an embedded schema
type Name string

const (
	Resume  Name = "resume.schema.json"
	Job     Name = "job.schema.json"
	Precise Name = "precise.schema.json"

	Analysis Name = "analysis.schema.json"
	Plan     Name = "plan.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// cache holds one compiled schema per Name, built on first use
var cache sync.Map

const rootField = "(root)"

// FieldError is one schema violation
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s: %s", e.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError means the schema itself is missing or broken
type SchemaLoadError struct {
	Path  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s unusable: %v", e.Path, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

// Validate checks document against the named schema. Malformed JSON is
// reported as a ValidationError on the root, like any other mismatch.
func Validate(name Name, document []byte) error {
	schema, err := compile(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Schema: name, Errors: []FieldError{{Field: rootField, Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name}
	for _, re := range result.Errors() {
		field := re.Field()
		if field == "" {
			field = rootField
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: re.Description()})
	}
	return verr
}

func compile(name Name) (*gojsonschema.Schema, error) {
	if s, ok := cache.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}

	raw, err := files.ReadFile(string(name))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Cause: err}
	}
	actual, _ := cache.LoadOrStore(name, schema)
	return actual.(*gojsonschema.Schema), nil
}
