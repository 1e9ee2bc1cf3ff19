package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-matcher/internal/types"
)

// ResumeRecord is a stored resume extraction
type ResumeRecord struct {
	ID          uuid.UUID              `json:"id"`
	ContentHash string                 `json:"content_hash"`
	RawText     string                 `json:"-"`
	Profile     *types.ResumeProfile   `json:"profile"`
	Confidence  float64                `json:"confidence"`
	Method      types.ExtractionMethod `json:"method"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// JobRecord is a stored job extraction
type JobRecord struct {
	ID          uuid.UUID              `json:"id"`
	ContentHash string                 `json:"content_hash"`
	SourceURL   *string                `json:"source_url,omitempty"`
	RawText     string                 `json:"-"`
	Profile     *types.JobProfile      `json:"profile"`
	Confidence  float64                `json:"confidence"`
	Method      types.ExtractionMethod `json:"method"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// MatchRecord is a stored match outcome. Detail holds the MatchScore or
// PreciseResult that produced Score; SearchID is set for batch results.
type MatchRecord struct {
	ID        uuid.UUID       `json:"id"`
	ResumeID  uuid.UUID       `json:"resume_id"`
	JobID     uuid.UUID       `json:"job_id"`
	SearchID  uuid.NullUUID   `json:"search_id"`
	Mode      string          `json:"mode"`
	Score     float64         `json:"score"`
	Detail    json.RawMessage `json:"detail"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMatch is a match outcome to store. Detail is marshaled to JSON.
type NewMatch struct {
	ResumeID uuid.UUID
	JobID    uuid.UUID
	SearchID uuid.NullUUID
	Mode     string
	Score    float64
	Detail   any
}

// SearchRecord is one stored batch search. ResumeID is unset for searches
// run on an unsaved resume; Plan holds the search plan when one was used.
type SearchRecord struct {
	ID           uuid.UUID       `json:"id"`
	ResumeID     uuid.NullUUID   `json:"resume_id"`
	Strategy     string          `json:"strategy,omitempty"`
	Plan         json.RawMessage `json:"plan,omitempty"`
	JobsFound    int             `json:"jobs_found"`
	JobsReturned int             `json:"jobs_returned"`
	AvgScore     float64         `json:"avg_score"`
	Duration     time.Duration   `json:"duration"`
	CreatedAt    time.Time       `json:"created_at"`
}
