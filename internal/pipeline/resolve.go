package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

type pair struct {
	resume     *types.ResumeProfile
	resumeText string
	resumeID   uuid.UUID
	job        *types.JobProfile
	jobText    string
	jobID      uuid.UUID
}

func (s *Service) resolvePair(ctx context.Context, req MatchRequest) (*pair, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}

	p := &pair{}
	var err error
	if p.resume, p.resumeText, p.resumeID, err = s.resolveResume(ctx, req.ResumeInput, req.Options); err != nil {
		return nil, err
	}
	if p.job, p.jobText, p.jobID, err = s.resolveJob(ctx, BatchJob{JobID: req.JobID, Job: req.Job, Text: req.JobText}, req.Options); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) resolveResume(ctx context.Context, in ResumeInput, opts extraction.Options) (*types.ResumeProfile, string, uuid.UUID, error) {
	switch {
	case in.ResumeID != "":
		if s.store == nil {
			return nil, "", uuid.Nil, ErrStoreUnavailable
		}
		id := uuid.MustParse(in.ResumeID)
		rec, err := s.store.GetResume(ctx, id)
		if err != nil {
			return nil, "", uuid.Nil, err
		}
		return rec.Profile, rec.RawText, rec.ID, nil
	case in.Resume != nil:
		return in.Resume, in.ResumeText, uuid.Nil, nil
	case in.ResumeText != "":
		text := ingestion.CleanText(in.ResumeText)
		return s.extractor.ExtractResume(ctx, text, opts).Fields, text, uuid.Nil, nil
	default:
		return nil, "", uuid.Nil, &InputError{Field: "resume", Message: "one of resume_id, resume or resume_text is required"}
	}
}

func (s *Service) resolveJob(ctx context.Context, in BatchJob, opts extraction.Options) (*types.JobProfile, string, uuid.UUID, error) {
	switch {
	case in.JobID != "":
		if s.store == nil {
			return nil, "", uuid.Nil, ErrStoreUnavailable
		}
		rec, err := s.store.GetJob(ctx, uuid.MustParse(in.JobID))
		if err != nil {
			return nil, "", uuid.Nil, err
		}
		return rec.Profile, rec.RawText, rec.ID, nil
	case in.Job != nil:
		return in.Job, in.Text, uuid.Nil, nil
	case in.Text != "":
		text := ingestion.CleanText(in.Text)
		return s.extractor.ExtractJob(ctx, text, opts).Fields, text, uuid.Nil, nil
	default:
		return nil, "", uuid.Nil, &InputError{Field: "job", Message: "one of job_id, job or job_text is required"}
	}
}

// resolveJobs turns batch jobs into candidates. Raw texts are extracted
// together; jobs that cannot be resolved are logged and counted.
func (s *Service) resolveJobs(ctx context.Context, jobs []BatchJob, opts extraction.Options) ([]matching.Candidate, int) {
	candidates := make([]matching.Candidate, len(jobs))
	ok := make([]bool, len(jobs))
	excluded := 0

	var docs []extraction.Document
	docIndex := map[string]int{}
	for i, job := range jobs {
		id := job.ID
		if id == "" {
			id = job.JobID
		}
		if id == "" {
			id = strconv.Itoa(i)
		}
		candidates[i].ID = id

		if job.JobID == "" && job.Job == nil && job.Text != "" {
			key := strconv.Itoa(i)
			docIndex[key] = i
			candidates[i].Text = ingestion.CleanText(job.Text)
			docs = append(docs, extraction.Document{ID: key, Kind: extraction.KindJob, Text: candidates[i].Text})
			continue
		}

		profile, text, _, err := s.resolveJob(ctx, job, opts)
		if err != nil {
			s.log.Warn("job excluded from batch", zap.String("job_id", id), zap.Error(err))
			excluded++
			continue
		}
		candidates[i].Job, candidates[i].Text = profile, text
		ok[i] = true
	}

	var extracted []extraction.BatchResult
	if len(docs) > 0 {
		extracted = s.extractor.ExtractBatch(ctx, docs, opts, s.concurrency)
	}
	for _, res := range extracted {
		i := docIndex[res.ID]
		if res.Err != nil || res.Job == nil {
			err := res.Err
			if err == nil {
				err = errors.New("no job extracted")
			}
			s.log.Warn("job excluded from batch", zap.String("job_id", candidates[i].ID), zap.Error(err))
			excluded++
			continue
		}
		candidates[i].Job = res.Job.Fields
		ok[i] = true
	}

	resolved := make([]matching.Candidate, 0, len(candidates))
	for i, c := range candidates {
		if ok[i] {
			resolved = append(resolved, c)
		}
	}
	return resolved, excluded
}

// saveMatch persists a result when both sides are stored records
func (s *Service) saveMatch(ctx context.Context, p *pair, mode string, score float64, detail any) {
	if s.store == nil || p.resumeID == uuid.Nil || p.jobID == uuid.Nil {
		return
	}
	s.storeMatch(ctx, db.NewMatch{ResumeID: p.resumeID, JobID: p.jobID, Mode: mode, Score: score, Detail: detail})
}

// storeMatch writes one match row. Failures are logged and do not fail the request.
func (s *Service) storeMatch(ctx context.Context, m db.NewMatch) {
	if _, err := s.store.SaveMatch(ctx, m); err != nil {
		s.log.Warn("failed to save match",
			zap.String("resume_id", m.ResumeID.String()),
			zap.String("job_id", m.JobID.String()),
			zap.Error(fmt.Errorf("%s match: %w", m.Mode, err)))
	}
}

// saveSearch records a finished batch and, for a stored resume, the matches
// of its stored jobs under the search ID. Failures are logged only.
func (s *Service) saveSearch(ctx context.Context, req BatchRequest, result *BatchResult, resumeID uuid.UUID, elapsed time.Duration) {
	if s.store == nil {
		return
	}
	searchID := uuid.MustParse(result.SearchID)
	rec := db.SearchRecord{
		ID:           searchID,
		Strategy:     result.Strategy,
		JobsFound:    len(req.Jobs),
		JobsReturned: len(result.Matches),
		Duration:     elapsed,
	}
	if resumeID != uuid.Nil {
		rec.ResumeID = uuid.NullUUID{UUID: resumeID, Valid: true}
	}
	if len(result.Matches) > 0 {
		total := 0.0
		for _, m := range result.Matches {
			total += m.Score
		}
		rec.AvgScore = total / float64(len(result.Matches))
	}
	if req.Plan != nil {
		if plan, err := json.Marshal(req.Plan); err == nil {
			rec.Plan = plan
		}
	}
	if err := s.store.SaveSearch(ctx, rec); err != nil {
		s.log.Warn("failed to save search", zap.String("search_id", result.SearchID), zap.Error(err))
		return
	}
	if resumeID == uuid.Nil {
		return
	}

	stored := storedJobIDs(req.Jobs)
	for _, m := range result.Matches {
		jobID, ok := stored[m.JobID]
		if !ok {
			continue
		}
		nm := db.NewMatch{
			ResumeID: resumeID,
			JobID:    jobID,
			SearchID: uuid.NullUUID{UUID: searchID, Valid: true},
			Mode:     matching.ModeFast,
			Score:    m.Score,
			Detail:   m.Fast,
		}
		if m.Precise != nil {
			nm.Mode, nm.Detail = matching.ModePrecise, m.Precise
		}
		s.storeMatch(ctx, nm)
	}
}

// storedJobIDs maps the candidate ID of every batch job that names a stored
// job to that job's ID
func storedJobIDs(jobs []BatchJob) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID)
	for _, job := range jobs {
		if job.JobID == "" {
			continue
		}
		key := job.ID
		if key == "" {
			key = job.JobID
		}
		out[key] = uuid.MustParse(job.JobID)
	}
	return out
}
