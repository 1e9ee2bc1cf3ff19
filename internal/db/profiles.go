package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/job-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

// SaveResume stores a resume extraction keyed by the content hash of its text.
// Saving the same text again refreshes the stored extraction and keeps the ID.
func (db *DB) SaveResume(ctx context.Context, hash, text string, ex types.ResumeExtraction) (*ResumeRecord, error) {
	profileJSON, err := json.Marshal(ex.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume profile: %w", err)
	}

	rec := ResumeRecord{
		ContentHash: hash,
		RawText:     text,
		Profile:     ex.Fields,
		Confidence:  ex.Confidence,
		Method:      ex.Method,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (content_hash, raw_text, profile, confidence, method)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (content_hash) DO UPDATE
		 SET profile = $3, confidence = $4, method = $5, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		hash, text, profileJSON, ex.Confidence, string(ex.Method),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return &rec, nil
}

// GetResume retrieves a resume by ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ResumeRecord, error) {
	var rec ResumeRecord
	var profileJSON []byte
	var method string

	err := db.pool.QueryRow(ctx,
		`SELECT id, content_hash, raw_text, profile, confidence, method, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ContentHash, &rec.RawText, &profileJSON, &rec.Confidence,
		&method, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "resume", id)
	}

	rec.Method = types.ExtractionMethod(method)
	if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode resume profile: %w", err)
	}
	return &rec, nil
}

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// SaveJob stores a job extraction keyed by the content hash of its text.
// sourceURL may be empty.
func (db *DB) SaveJob(ctx context.Context, hash, text, sourceURL string, ex types.JobExtraction) (*JobRecord, error) {
	profileJSON, err := json.Marshal(ex.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job profile: %w", err)
	}

	var title, company string
	if ex.Fields != nil {
		title, company = ex.Fields.Title, ex.Fields.Company
	}
	var url *string
	if sourceURL != "" {
		url = &sourceURL
	}

	rec := JobRecord{
		ContentHash: hash,
		SourceURL:   url,
		RawText:     text,
		Profile:     ex.Fields,
		Confidence:  ex.Confidence,
		Method:      ex.Method,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (content_hash, source_url, title, company, raw_text, profile, confidence, method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (content_hash) DO UPDATE
		 SET source_url = COALESCE($2, jobs.source_url), title = $3, company = $4,
		     profile = $6, confidence = $7, method = $8, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		hash, url, title, company, text, profileJSON, ex.Confidence, string(ex.Method),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	return &rec, nil
}

// GetJob retrieves a job by ID
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*JobRecord, error) {
	var rec JobRecord
	var profileJSON []byte
	var method string

	err := db.pool.QueryRow(ctx,
		`SELECT id, content_hash, source_url, raw_text, profile, confidence, method, created_at, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ContentHash, &rec.SourceURL, &rec.RawText, &profileJSON,
		&rec.Confidence, &method, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "job", id)
	}

	rec.Method = types.ExtractionMethod(method)
	if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode job profile: %w", err)
	}
	return &rec, nil
}
