package pipeline

import (
	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

// ExtractRequest asks for one document to be extracted
type ExtractRequest struct {
	Text      string             `json:"text" validate:"required"`
	SourceURL string             `json:"source_url,omitempty" validate:"omitempty,url"`
	Options   extraction.Options `json:"options"`
	// Save stores the extraction and returns its ID
	Save bool `json:"save,omitempty"`
}

// ResumeResult is an extracted resume, with its ID when it was stored
type ResumeResult struct {
	ID          string                 `json:"id,omitempty"`
	ContentHash string                 `json:"content_hash"`
	Extraction  types.ResumeExtraction `json:"extraction"`
}

// JobResult is an extracted job, with its ID when it was stored
type JobResult struct {
	ID          string              `json:"id,omitempty"`
	ContentHash string              `json:"content_hash"`
	Extraction  types.JobExtraction `json:"extraction"`
}

// ResumeInput names a resume by stored ID, by profile or by raw text, in that
// order of preference
type ResumeInput struct {
	ResumeID   string               `json:"resume_id,omitempty" validate:"omitempty,uuid"`
	Resume     *types.ResumeProfile `json:"resume,omitempty"`
	ResumeText string               `json:"resume_text,omitempty"`
}

// MatchRequest scores one resume against one job
type MatchRequest struct {
	ResumeInput
	JobID   string             `json:"job_id,omitempty" validate:"omitempty,uuid"`
	Job     *types.JobProfile  `json:"job,omitempty"`
	JobText string             `json:"job_text,omitempty"`
	Embed   bool               `json:"embed,omitempty"`
	Options extraction.Options `json:"options"`
	// FeedbackWeights derives the precise-match weights from the feedback
	// stored for ResumeID
	FeedbackWeights bool `json:"feedback_weights,omitempty"`
}

// BatchJob is one job of a batch request
type BatchJob struct {
	ID    string            `json:"id,omitempty"`
	JobID string            `json:"job_id,omitempty" validate:"omitempty,uuid"`
	Job   *types.JobProfile `json:"job,omitempty"`
	Text  string            `json:"text,omitempty"`
}

// BatchRequest scores one resume against many jobs
type BatchRequest struct {
	ResumeInput
	Jobs     []BatchJob         `json:"jobs" validate:"required,min=1,max=500,dive"`
	Limit    int                `json:"limit,omitempty" validate:"gte=0"`
	MinScore float64            `json:"min_score,omitempty" validate:"gte=0,lte=100"`
	Precise  bool               `json:"precise,omitempty"`
	Embed    bool               `json:"embed,omitempty"`
	Options  extraction.Options `json:"options"`

	// Strategy labels the search for strategy ranking. It defaults to the
	// radius of Plan, whose weights also drive the precise pass.
	Strategy string              `json:"strategy,omitempty" validate:"max=64"`
	Plan     *advisor.SearchPlan `json:"plan,omitempty"`
}

// BatchResult is the ranked outcome of a batch
type BatchResult struct {
	SearchID string                 `json:"search_id"`
	Strategy string                 `json:"strategy,omitempty"`
	Matches  []matching.RankedMatch `json:"matches"`
	// Excluded counts jobs that could not be resolved or scored
	Excluded int `json:"excluded"`
}

// AnalyzeRequest asks for a career review of one resume
type AnalyzeRequest struct {
	ResumeInput
	Options extraction.Options `json:"options"`
}

// PlanRequest asks for a search plan for one resume
type PlanRequest struct {
	ResumeInput
	Preferences advisor.Preferences `json:"preferences"`
	Options     extraction.Options  `json:"options"`
}

// QualityResult is how one stored search was received
type QualityResult struct {
	SearchID     string           `json:"search_id"`
	Strategy     string           `json:"strategy,omitempty"`
	JobsReturned int              `json:"jobs_returned"`
	Interactions int              `json:"interactions"`
	Quality      feedback.Quality `json:"quality"`
}

// WeightsResult is the feedback analysis of one resume
type WeightsResult struct {
	ResumeID string            `json:"resume_id"`
	Analysis feedback.Analysis `json:"analysis"`
}
