//nolint:revive // types is a standard Go package name pattern
package types

// ExtractionMethod tags which path produced an extraction
type ExtractionMethod string

const (
	// MethodRule marks output of the pattern-based extractor
	MethodRule ExtractionMethod = "rule"
	// MethodLLM marks output parsed from a language model response
	MethodLLM ExtractionMethod = "llm"
)

// ExtractionResult is the outcome of turning raw text into structured fields.
// Confidence is always within [0, 1].
type ExtractionResult[T any] struct {
	Fields     T                `json:"fields"`
	Confidence float64          `json:"confidence"`
	Method     ExtractionMethod `json:"method"`
}

// ResumeExtraction is the extraction result for resume text
type ResumeExtraction = ExtractionResult[*ResumeProfile]

// JobExtraction is the extraction result for a job description
type JobExtraction = ExtractionResult[*JobProfile]
