package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/safeguard"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

// Prompt input limits in runes
const (
	maxResumePromptRunes = 4000
	maxJobPromptRunes    = 3000
)

var numberInText = regexp.MustCompile(`\d+(?:\.\d+)?`)

// resumeByModel asks the model for the exhaustive resume profile
func (e *Extractor) resumeByModel(ctx context.Context, text string) (*types.ResumeProfile, error) {
	fields, err := e.callModel(ctx, KindResume, prompts.KeyExtractResume, schemas.Resume, map[string]string{
		"ResumeText": truncateRunes(text, maxResumePromptRunes),
	})
	if err != nil {
		return nil, err
	}

	coerceInts(fields, "age", "years_experience")
	coerceStrings(fields, "name", "phone", "email", "gender", "location", "current_position",
		"current_company", "education", "university", "major", "self_evaluation")
	if intention, ok := fields["job_intention"].(map[string]any); ok {
		coerceInts(intention, "salary_min", "salary_max")
		coerceStringLists(intention, "positions", "industries", "cities")
	}
	if entries, ok := fields["education_list"].([]any); ok {
		for _, entry := range entries {
			if m, ok := entry.(map[string]any); ok {
				coerceStrings(m, "gpa", "start_date", "end_date")
			}
		}
	}

	var profile types.ResumeProfile
	if err := remarshal(fields, &profile); err != nil {
		return nil, err
	}
	normalizeResume(&profile)
	return &profile, nil
}

// jobByModel asks the model for the job profile
func (e *Extractor) jobByModel(ctx context.Context, text string) (*types.JobProfile, error) {
	fields, err := e.callModel(ctx, KindJob, prompts.KeyExtractJob, schemas.Job, map[string]string{
		"JobText": truncateRunes(text, maxJobPromptRunes),
	})
	if err != nil {
		return nil, err
	}

	coerceInts(fields, "salary_min", "salary_max")
	coerceStrings(fields, "title", "company", "city", "salary_range", "experience_required",
		"education_required", "company_size", "company_industry")
	coerceStringLists(fields, "required_skills", "preferred_skills", "responsibilities", "benefits")

	var profile types.JobProfile
	if err := remarshal(fields, &profile); err != nil {
		return nil, err
	}
	normalizeJob(&profile)
	return &profile, nil
}

// callModel renders the prompt, waits for a model slot and returns the validated JSON object
func (e *Extractor) callModel(
	ctx context.Context,
	kind Kind,
	promptKey string,
	schema schemas.Name,
	data map[string]string,
) (map[string]any, error) {
	if e.client == nil {
		return nil, ErrNoModel
	}

	for key, text := range data {
		quoted, check := safeguard.Prepare(string(kind), text)
		if !check.Safe {
			e.log.Warn("injection phrases redacted from document",
				zap.String("kind", string(kind)),
				zap.Strings("matches", check.Matches))
		}
		data[key] = quoted
	}
	prompt, err := prompts.Render(prompts.ExtractionFile, promptKey, data)
	if err != nil {
		return nil, fmt.Errorf("%s extraction prompt: %w", kind, err)
	}

	if err := e.calls.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s extraction: waiting for model slot: %w", kind, err)
	}
	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	e.calls.Release(1)
	if err != nil {
		return nil, fmt.Errorf("%s extraction: %w", kind, err)
	}

	doc := llm.CleanJSONBlock(raw)
	e.log.Debug("model response received",
		zap.String("kind", string(kind)),
		zap.String("response", truncateRunes(doc, 200)))

	var fields map[string]any
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		return nil, &llm.ParseError{Message: fmt.Sprintf("%s extraction returned invalid JSON", kind), Cause: err}
	}
	if err := schemas.Validate(schema, []byte(doc)); err != nil {
		return nil, &ValidationError{Kind: kind, Field: "(document)", Message: "response does not match schema", Cause: err}
	}
	return fields, nil
}

// remarshal moves the coerced map into a typed struct
func remarshal(fields map[string]any, out any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return &llm.ParseError{Message: "failed to re-encode model fields", Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &llm.ParseError{Message: "model fields do not fit the profile", Cause: err}
	}
	return nil
}

// coerceInts turns numbers and numeric strings into non-negative integers, dropping anything else
func coerceInts(fields map[string]any, keys ...string) {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok {
			continue
		}
		n, ok := toInt(value)
		if !ok || n < 0 {
			delete(fields, key)
			continue
		}
		fields[key] = n
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(math.Round(v)), true
	case string:
		match := numberInText.FindString(v)
		if match == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

// coerceStrings stringifies scalar values and drops structured ones
func coerceStrings(fields map[string]any, keys ...string) {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		if s, ok := toString(value); ok {
			fields[key] = s
		} else {
			delete(fields, key)
		}
	}
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// coerceStringLists accepts a list or a comma separated string and keeps the scalar items
func coerceStringLists(fields map[string]any, keys ...string) {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		var items []string
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				if s, ok := toString(item); ok && s != "" {
					items = append(items, s)
				}
			}
		case string:
			for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '，' || r == '、' }) {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		}
		if len(items) == 0 {
			delete(fields, key)
			continue
		}
		fields[key] = items
	}
}

func normalizeResume(profile *types.ResumeProfile) {
	if profile.Age != nil && *profile.Age == 0 {
		profile.Age = nil
	}
	if profile.JobIntention != nil && len(profile.JobIntention.Positions) == 0 &&
		len(profile.JobIntention.Cities) == 0 && len(profile.JobIntention.Industries) == 0 &&
		profile.JobIntention.SalaryMin == nil && profile.JobIntention.SalaryMax == nil &&
		profile.JobIntention.JobType == "" {
		profile.JobIntention = nil
	}
	if profile.Links != nil && *profile.Links == (types.Links{}) {
		profile.Links = nil
	}
}

func normalizeJob(profile *types.JobProfile) {
	profile.RequiredSkills = dedupe(profile.RequiredSkills)
	profile.PreferredSkills = dedupe(profile.PreferredSkills)
	if profile.SalaryRange == "" && profile.SalaryMin != nil && profile.SalaryMax != nil {
		profile.SalaryRange = fmt.Sprintf("%dk-%dk", *profile.SalaryMin, *profile.SalaryMax)
	}
}

func dedupe(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = appendUnique(out, item)
		}
	}
	return out
}
