package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-matcher/internal/types"
)

const defaultListLimit = 50

// SaveMatch stores one match outcome
func (db *DB) SaveMatch(ctx context.Context, m NewMatch) (uuid.UUID, error) {
	detailJSON, err := json.Marshal(m.Detail)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal match detail: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO match_results (resume_id, job_id, search_id, mode, score, detail)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		m.ResumeID, m.JobID, m.SearchID, m.Mode, m.Score, detailJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save match: %w", err)
	}
	return id, nil
}

// ListMatches returns the best matches of a resume, highest score first
func (db *DB) ListMatches(ctx context.Context, resumeID uuid.UUID, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, job_id, search_id, mode, score, detail, created_at
		 FROM match_results WHERE resume_id = $1
		 ORDER BY score DESC, created_at DESC
		 LIMIT $2`,
		resumeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MatchRecord, error) {
		var (
			m      MatchRecord
			detail []byte
		)
		err := row.Scan(&m.ID, &m.ResumeID, &m.JobID, &m.SearchID, &m.Mode, &m.Score, &detail, &m.CreatedAt)
		m.Detail = detail
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan matches: %w", err)
	}
	return matches, nil
}

// -----------------------------------------------------------------------------
// Feedback Methods
// -----------------------------------------------------------------------------

// SaveFeedback stores one interaction. ResumeID and JobID must be UUIDs of
// stored records.
func (db *DB) SaveFeedback(ctx context.Context, fb types.Feedback) (uuid.UUID, error) {
	resumeID, err := uuid.Parse(fb.ResumeID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid resume id %q: %w", fb.ResumeID, err)
	}
	jobID, err := uuid.Parse(fb.JobID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid job id %q: %w", fb.JobID, err)
	}

	var scoresJSON []byte
	if len(fb.DimensionScores) > 0 {
		if scoresJSON, err = json.Marshal(fb.DimensionScores); err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal dimension scores: %w", err)
		}
	}
	var searchID *string
	if fb.SearchID != "" {
		searchID = &fb.SearchID
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO feedback (resume_id, job_id, search_id, feedback_type, rating, dimension_scores)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		resumeID, jobID, searchID, string(fb.Type), fb.Rating, scoresJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return id, nil
}

// ListFeedback returns every interaction recorded for a resume, newest first
func (db *DB) ListFeedback(ctx context.Context, resumeID uuid.UUID) ([]types.Feedback, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, job_id, search_id, feedback_type, rating, dimension_scores, created_at
		 FROM feedback WHERE resume_id = $1
		 ORDER BY created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return records, nil
}

func scanFeedback(row pgx.CollectableRow) (types.Feedback, error) {
	var (
		fb                  types.Feedback
		id, resumeID, jobID uuid.UUID
		searchID            *string
		feedbackType        string
		scoresJSON          []byte
	)
	if err := row.Scan(&id, &resumeID, &jobID, &searchID, &feedbackType, &fb.Rating, &scoresJSON, &fb.CreatedAt); err != nil {
		return fb, err
	}

	fb.ID = id.String()
	fb.ResumeID = resumeID.String()
	fb.JobID = jobID.String()
	fb.Type = types.FeedbackType(feedbackType)
	if searchID != nil {
		fb.SearchID = *searchID
	}
	if scoresJSON != nil {
		if err := json.Unmarshal(scoresJSON, &fb.DimensionScores); err != nil {
			return fb, fmt.Errorf("decode dimension scores: %w", err)
		}
	}
	return fb, nil
}
