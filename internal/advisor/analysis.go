package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/safeguard"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

const (
	maxAnalysisRunes = 3000
	maxHighlights    = 5
	notProvided      = "未提供"
)

// Career levels, by years of experience in the rule-based analysis
const (
	LevelJunior    = "初级"
	LevelMid       = "中级"
	LevelSenior    = "高级"
	LevelPrincipal = "资深"
)

// SkillLevel is one core skill with the proficiency the model judged
type SkillLevel struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// ResumeAnalysis is the career review of one resume. Salaries are thousands
// per month.
type ResumeAnalysis struct {
	CoreSkills           []SkillLevel `json:"core_skills"`
	SoftSkills           []string     `json:"soft_skills,omitempty"`
	YearsExperience      *int         `json:"years_experience,omitempty"`
	Industries           []string     `json:"industries,omitempty"`
	Level                string       `json:"level,omitempty"`
	Highlights           []string     `json:"highlights,omitempty"`
	CareerStage          string       `json:"career_stage,omitempty"`
	CareerDirection      string       `json:"career_direction,omitempty"`
	Transitions          []string     `json:"potential_transitions,omitempty"`
	Strengths            []string     `json:"strengths,omitempty"`
	Weaknesses           []string     `json:"weaknesses,omitempty"`
	SalaryMin            *int         `json:"salary_min,omitempty"`
	SalaryMax            *int         `json:"salary_max,omitempty"`
	RecommendedPositions []string     `json:"recommended_positions,omitempty"`

	// Fallback is set when the analysis was derived by rules; Error says why
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// analysisAnswer is the JSON document requested from the model
type analysisAnswer struct {
	CoreSkills           []SkillLevel `json:"core_skills"`
	SoftSkills           []string     `json:"soft_skills"`
	YearsExperience      *float64     `json:"years_experience"`
	Industries           []string     `json:"industries"`
	Level                string       `json:"level"`
	Highlights           []string     `json:"highlights"`
	CareerStage          string       `json:"career_stage"`
	CareerDirection      string       `json:"career_direction"`
	Transitions          []string     `json:"potential_transitions"`
	Strengths            []string     `json:"strengths"`
	Weaknesses           []string     `json:"weaknesses"`
	SalaryMin            *float64     `json:"salary_min"`
	SalaryMax            *float64     `json:"salary_max"`
	RecommendedPositions []string     `json:"recommended_positions"`
}

// AnalyzeResume reviews a resume with the model. Without a usable answer the
// review is derived from the extracted profile and flagged as a fallback.
func (a *Advisor) AnalyzeResume(ctx context.Context, resume *types.ResumeProfile, resumeText string) ResumeAnalysis {
	if resume == nil {
		resume = &types.ResumeProfile{}
	}

	var answer analysisAnswer
	if err := a.ask(ctx, prompts.KeyAnalyzeResume, schemas.Analysis, analysisData(resume, resumeText, a.log), &answer); err != nil {
		a.fallback(KindAnalysis, err)
		analysis := RuleAnalysis(resume)
		analysis.Error = err.Error()
		return analysis
	}

	analysis := ResumeAnalysis{
		SoftSkills:           clean(answer.SoftSkills),
		YearsExperience:      roundInt(answer.YearsExperience),
		Industries:           clean(answer.Industries),
		Level:                strings.TrimSpace(answer.Level),
		Highlights:           clean(answer.Highlights),
		CareerStage:          strings.TrimSpace(answer.CareerStage),
		CareerDirection:      strings.TrimSpace(answer.CareerDirection),
		Transitions:          clean(answer.Transitions),
		Strengths:            clean(answer.Strengths),
		Weaknesses:           clean(answer.Weaknesses),
		SalaryMin:            roundInt(answer.SalaryMin),
		SalaryMax:            roundInt(answer.SalaryMax),
		RecommendedPositions: clean(answer.RecommendedPositions),
	}
	for _, s := range answer.CoreSkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			analysis.CoreSkills = append(analysis.CoreSkills, SkillLevel{Name: name, Proficiency: strings.TrimSpace(s.Proficiency)})
		}
	}
	if analysis.YearsExperience == nil {
		analysis.YearsExperience = resume.YearsExperience
	}
	if len(analysis.RecommendedPositions) == 0 {
		analysis.RecommendedPositions = targetPositions(resume)
	}

	a.log.Info("resume analysis finished",
		zap.String("level", analysis.Level),
		zap.Int("core_skills", len(analysis.CoreSkills)))
	return analysis
}

// RuleAnalysis derives a review from the extracted profile alone
func RuleAnalysis(resume *types.ResumeProfile) ResumeAnalysis {
	if resume == nil {
		resume = &types.ResumeProfile{}
	}
	analysis := ResumeAnalysis{
		YearsExperience:      resume.YearsExperience,
		RecommendedPositions: targetPositions(resume),
		Fallback:             true,
	}
	for _, name := range resume.Skills.Flatten() {
		analysis.CoreSkills = append(analysis.CoreSkills, SkillLevel{Name: name})
	}
	if resume.YearsExperience != nil {
		analysis.Level = levelFor(*resume.YearsExperience)
		analysis.CareerStage = analysis.Level
	}
	if in := resume.JobIntention; in != nil {
		analysis.Industries = clean(in.Industries)
		analysis.SalaryMin, analysis.SalaryMax = in.SalaryMin, in.SalaryMax
	}

	var highlights []string
	for _, w := range resume.WorkExperiences {
		highlights = append(highlights, w.Achievements...)
	}
	for _, p := range resume.ProjectExperiences {
		highlights = append(highlights, p.Achievements...)
	}
	if highlights = clean(highlights); len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	analysis.Highlights = highlights
	return analysis
}

func levelFor(years int) string {
	switch {
	case years < 3:
		return LevelJunior
	case years < 5:
		return LevelMid
	case years < 10:
		return LevelSenior
	default:
		return LevelPrincipal
	}
}

// targetPositions prefers the stated intention over the current title
func targetPositions(resume *types.ResumeProfile) []string {
	if positions := clean(resume.IntentionPositions()); len(positions) > 0 {
		return positions
	}
	return clean([]string{resume.CurrentPosition})
}

func analysisData(resume *types.ResumeProfile, resumeText string, log *zap.Logger) map[string]string {
	years := notProvided
	if resume.YearsExperience != nil {
		years = fmt.Sprintf("%d年", *resume.YearsExperience)
	}
	intention := strings.Join(resume.IntentionPositions(), "、")

	text := []rune(strings.TrimSpace(resumeText))
	if len(text) > maxAnalysisRunes {
		text = text[:maxAnalysisRunes]
	}
	quoted, check := safeguard.Prepare("resume", string(text))
	if !check.Safe {
		log.Warn("injection phrases redacted from resume analysis input", zap.Strings("matches", check.Matches))
	}

	return map[string]string{
		"Name":            orNotProvided(resume.Name),
		"Years":           years,
		"Education":       orNotProvided(resume.Education),
		"CurrentPosition": orNotProvided(resume.CurrentPosition),
		"Skills":          orNotProvided(strings.Join(resume.Skills.Flatten(), ", ")),
		"Intention":       orNotProvided(intention),
		"ResumeText":      quoted,
	}
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
