package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/safeguard"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

// Prompt excerpt limits in runes
const (
	maxResumeExcerptRunes = 2000
	maxJobExcerptRunes    = 1500
)

// ScoreTolerance is how far the model's overall score may drift from the
// weighted dimension sum before the computed value replaces it
const ScoreTolerance = 5.0

const (
	notProvided     = "未提供"
	missingAnalysis = "无法生成分析"
)

// ErrNoModel is recorded on fallbacks when the Matcher has no client
var ErrNoModel = errors.New("no language model configured")

// preciseVerdict is the JSON verdict requested from the model
type preciseVerdict struct {
	OverallScore   float64            `json:"overall_score"`
	Dimensions     map[string]float64 `json:"dimensions"`
	Strengths      textList           `json:"strengths"`
	Weaknesses     textList           `json:"weaknesses"`
	Recommendation string             `json:"recommendation"`
	Summary        string             `json:"summary"`
}

// textList accepts a JSON list or a single string
type textList []string

func (l *textList) UnmarshalJSON(data []byte) error {
	var items []*string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = nil
		for _, item := range items {
			if item != nil && strings.TrimSpace(*item) != "" {
				*l = append(*l, strings.TrimSpace(*item))
			}
		}
		return nil
	}
	var single *string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = nil
	if single != nil && strings.TrimSpace(*single) != "" {
		*l = textList{strings.TrimSpace(*single)}
	}
	return nil
}

// PreciseMatch asks the model for a seven-dimension verdict. The verdict's
// overall score is replaced by the weighted dimension sum when the two differ
// by more than ScoreTolerance. Any failure falls back to FastMatch with the
// fallback flagged on the result; the call itself never fails.
func (m *Matcher) PreciseMatch(
	ctx context.Context,
	resume *types.ResumeProfile,
	job *types.JobProfile,
	resumeText, jobText string,
) types.PreciseResult {
	start := time.Now()
	verdict, err := m.askModel(ctx, resume, job, resumeText, jobText)
	if err != nil {
		return m.preciseFallback(resume, job, err)
	}

	dimensions := make(map[types.Dimension]float64, len(verdict.Dimensions))
	for name, score := range verdict.Dimensions {
		dimensions[types.Dimension(name)] = score
	}

	overall := verdict.OverallScore
	if computed := round2(m.weights.Apply(dimensions)); math.Abs(overall-computed) > ScoreTolerance {
		m.log.Warn("overall score deviates from weighted dimensions, using computed score",
			zap.Float64("model_score", overall),
			zap.Float64("computed_score", computed))
		overall = computed
	}

	summary := strings.TrimSpace(verdict.Summary)
	if summary == "" {
		summary = missingAnalysis
	}

	m.metrics.RecordMatch(ModePrecise, overall, time.Since(start))
	m.log.Info("precise match finished",
		zap.String("job_title", jobTitle(job)),
		zap.Float64("score", overall))

	return types.PreciseResult{
		Score:    overall,
		Analysis: summary,
		Detail: types.PreciseAnalysis{
			OverallScore:   overall,
			Dimensions:     dimensions,
			Strengths:      verdict.Strengths,
			Weaknesses:     verdict.Weaknesses,
			Recommendation: strings.TrimSpace(verdict.Recommendation),
			Summary:        summary,
		},
	}
}

func (m *Matcher) askModel(
	ctx context.Context,
	resume *types.ResumeProfile,
	job *types.JobProfile,
	resumeText, jobText string,
) (*preciseVerdict, error) {
	if m.client == nil {
		return nil, ErrNoModel
	}

	data := preciseData(resume, job, resumeText, jobText)
	for key, label := range map[string]string{"ResumeText": "resume", "JobText": "job"} {
		quoted, check := safeguard.Prepare(label, data[key])
		if !check.Safe {
			m.log.Warn("injection phrases redacted from precise match input",
				zap.String("field", key),
				zap.Strings("matches", check.Matches))
		}
		data[key] = quoted
	}
	prompt, err := prompts.Render(prompts.MatchingFile, prompts.KeyPreciseMatch, data)
	if err != nil {
		return nil, fmt.Errorf("precise match prompt: %w", err)
	}

	if err := m.calls.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("precise match: waiting for model slot: %w", err)
	}
	raw, err := m.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	m.calls.Release(1)
	if err != nil {
		return nil, fmt.Errorf("precise match: %w", err)
	}

	doc := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Precise, []byte(doc)); err != nil {
		return nil, fmt.Errorf("precise match verdict: %w", err)
	}
	var verdict preciseVerdict
	if err := json.Unmarshal([]byte(doc), &verdict); err != nil {
		return nil, &llm.ParseError{Message: "precise match verdict does not decode", Cause: err}
	}
	return &verdict, nil
}

// preciseFallback answers with the fast score and records why the model path failed
func (m *Matcher) preciseFallback(resume *types.ResumeProfile, job *types.JobProfile, cause error) types.PreciseResult {
	fast := m.FastMatch(resume, job, nil, nil)
	score := round2(fast.TotalScore)

	m.metrics.RecordPreciseFallback()
	m.log.Warn("precise match failed, using fast match score",
		zap.String("job_title", jobTitle(job)),
		zap.Float64("score", score),
		zap.Error(cause))

	return types.PreciseResult{
		Score:    score,
		Analysis: fmt.Sprintf("大模型分析失败，使用快速匹配结果: %s分", strconv.FormatFloat(score, 'f', -1, 64)),
		Detail: types.PreciseAnalysis{
			OverallScore: score,
			Fallback:     true,
			Error:        cause.Error(),
		},
		Fast: &fast,
	}
}

func preciseData(resume *types.ResumeProfile, job *types.JobProfile, resumeText, jobText string) map[string]string {
	if resume == nil {
		resume = &types.ResumeProfile{}
	}
	if job == nil {
		job = &types.JobProfile{}
	}

	years := notProvided
	if resume.YearsExperience != nil {
		years = fmt.Sprintf("%d年", *resume.YearsExperience)
	}
	cities := resume.Location
	if resume.JobIntention != nil && len(resume.JobIntention.Cities) > 0 {
		cities = strings.Join(resume.JobIntention.Cities, "、")
	}
	salary := job.SalaryRange
	if salary == "" && job.SalaryMin != nil && job.SalaryMax != nil {
		salary = fmt.Sprintf("%dk-%dk", *job.SalaryMin, *job.SalaryMax)
	}

	return map[string]string{
		"Name":               orNotProvided(resume.Name),
		"Years":              years,
		"Education":          orNotProvided(resume.Education),
		"Skills":             orNotProvided(strings.Join(resume.Skills.Flatten(), ", ")),
		"CurrentPosition":    orNotProvided(resume.CurrentPosition),
		"Cities":             orNotProvided(cities),
		"Title":              orNotProvided(job.Title),
		"Company":            orNotProvided(job.Company),
		"City":               orNotProvided(job.City),
		"Salary":             orNotProvided(salary),
		"ExperienceRequired": orNotProvided(job.ExperienceRequired),
		"EducationRequired":  orNotProvided(job.EducationRequired),
		"RequiredSkills":     orNotProvided(strings.Join(job.RequiredSkills, ", ")),
		"ResumeText":         orNotProvided(excerpt(resumeText, maxResumeExcerptRunes)),
		"JobText":            orNotProvided(excerpt(jobText, maxJobExcerptRunes)),
	}
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
