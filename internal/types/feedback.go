//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// FeedbackType is the kind of interaction a candidate had with a recommended job
type FeedbackType string

// Feedback types recorded by the API
const (
	FeedbackApply   FeedbackType = "apply"
	FeedbackLike    FeedbackType = "like"
	FeedbackView    FeedbackType = "view"
	FeedbackShare   FeedbackType = "share"
	FeedbackDislike FeedbackType = "dislike"
)

// Feedback is one recorded interaction. DimensionScores holds the 0-100
// per-dimension scores of the match the candidate reacted to.
type Feedback struct {
	ID              string                `json:"id,omitempty"`
	ResumeID        string                `json:"resume_id" validate:"required,uuid"`
	JobID           string                `json:"job_id" validate:"required,uuid"`
	SearchID        string                `json:"search_id,omitempty"`
	Type            FeedbackType          `json:"feedback_type" validate:"required,oneof=apply like view share dislike"`
	Rating          *float64              `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	DimensionScores map[Dimension]float64 `json:"dimension_scores,omitempty"`
	CreatedAt       time.Time             `json:"created_at,omitzero"`
}
