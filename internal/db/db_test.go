package db

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	id := uuid.New()

	err := notFound(pgx.ErrNoRows, "resume", id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), id.String())

	other := notFound(errors.New("connection reset"), "job", id)
	assert.NotErrorIs(t, other, ErrNotFound)
	assert.Equal(t, "load job "+id.String()+": connection reset", other.Error())
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"resumes", "jobs", "searches", "match_results", "feedback"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schemaSQL, "ADD COLUMN IF NOT EXISTS search_id")
}
