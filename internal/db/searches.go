package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-matcher/internal/types"
)

// SaveSearch stores a finished batch search under its own ID
func (db *DB) SaveSearch(ctx context.Context, rec SearchRecord) error {
	var plan []byte
	if len(rec.Plan) > 0 {
		plan = rec.Plan
	}
	var strategy *string
	if rec.Strategy != "" {
		strategy = &rec.Strategy
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO searches (id, resume_id, strategy, plan, jobs_found, jobs_returned, avg_score, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.ResumeID, strategy, plan, rec.JobsFound, rec.JobsReturned, rec.AvgScore, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save search: %w", err)
	}
	return nil
}

const searchColumns = `id, resume_id, strategy, plan, jobs_found, jobs_returned, avg_score, duration_ms, created_at`

// GetSearch loads one search
func (db *DB) GetSearch(ctx context.Context, id uuid.UUID) (*SearchRecord, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+searchColumns+` FROM searches WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err, "search", id)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanSearch)
	if err != nil {
		return nil, notFound(err, "search", id)
	}
	return &rec, nil
}

// ListSearches returns the most recent searches, newest first
func (db *DB) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	searches, err := pgx.CollectRows(rows, scanSearch)
	if err != nil {
		return nil, fmt.Errorf("failed to scan searches: %w", err)
	}
	return searches, nil
}

// ListSearchFeedback returns the interactions recorded against the given searches
func (db *DB) ListSearchFeedback(ctx context.Context, searchIDs []string) ([]types.Feedback, error) {
	if len(searchIDs) == 0 {
		return nil, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, job_id, search_id, feedback_type, rating, dimension_scores, created_at
		 FROM feedback WHERE search_id = ANY($1)
		 ORDER BY created_at DESC`,
		searchIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list search feedback: %w", err)
	}
	records, err := pgx.CollectRows(rows, scanFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to scan search feedback: %w", err)
	}
	return records, nil
}

func scanSearch(row pgx.CollectableRow) (SearchRecord, error) {
	var (
		rec        SearchRecord
		strategy   *string
		plan       []byte
		durationMS int64
	)
	err := row.Scan(&rec.ID, &rec.ResumeID, &strategy, &plan, &rec.JobsFound, &rec.JobsReturned,
		&rec.AvgScore, &durationMS, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if strategy != nil {
		rec.Strategy = *strategy
	}
	rec.Plan = plan
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}
