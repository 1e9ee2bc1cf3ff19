package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 2, displayWidth("Go"))
	assert.Equal(t, 4, displayWidth("张三"))
	assert.Equal(t, 6, displayWidth("Go开发"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmn", 10))

	cut := truncate(strings.Repeat("工", 10), 10)
	assert.Equal(t, "工工工...", cut)
	assert.LessOrEqual(t, displayWidth(cut), 10)
}

func TestPrintBox_AlignsWideText(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", "张三\nGo")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, displayWidth(line), line)
	}
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	years := 5
	NewPrinter(&buf).PrintResume(types.ResumeExtraction{
		Fields: &types.ResumeProfile{
			Name:            "张三",
			CurrentPosition: "Python开发工程师",
			YearsExperience: &years,
			Skills:          types.Skills{Flat: []string{"Python", "Django"}},
		},
		Confidence: 0.8,
		Method:     types.MethodRule,
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED RESUME")
	assert.Contains(t, output, "张三")
	assert.Contains(t, output, "5 years")
	assert.Contains(t, output, "Django")
	assert.Contains(t, output, "rule")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(types.ResumeExtraction{})
	assert.Empty(t, buf.String())
}

func TestPrintJob(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJob(types.JobExtraction{
		Fields: &types.JobProfile{
			Title:          "Go后端工程师",
			RequiredSkills: []string{"Go", "MySQL", "Redis", "Kafka", "Docker", "Kubernetes"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Go后端工程师")
	assert.Contains(t, output, "Company:    -")
	assert.Contains(t, output, "... and 1 more")
}

func TestPrintMatch(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatch(&types.MatchScore{
		TotalScore:      82.5,
		DimensionScores: map[types.Dimension]float64{types.DimensionPosition: 100, types.DimensionSkills: 70},
		Weights:         types.Weights{types.DimensionPosition: 0.5, types.DimensionSkills: 0.5},
		Details: types.MatchDetails{
			Skills: &types.SkillDetail{MissingRequired: []string{"Kafka"}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Total: 82.50")
	assert.Contains(t, output, "position")
	assert.Contains(t, output, "Kafka")
}

func TestPrintPrecise(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPrecise(&types.PreciseResult{
		Score:    76,
		Analysis: "匹配良好",
		Detail: types.PreciseAnalysis{
			Dimensions:     map[types.Dimension]float64{types.DimensionSalary: 60},
			Strengths:      []string{"技能匹配"},
			Recommendation: "推荐",
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Score: 76.00")
	assert.Contains(t, output, "salary")
	assert.Contains(t, output, "技能匹配")
}

func TestPrintRanked(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRanked([]matching.RankedMatch{
		{JobID: "a", Job: &types.JobProfile{Title: "Go工程师", Company: "美团"}, Score: 91},
		{JobID: "b", Score: 40},
	}, 2)
	output := buf.String()

	assert.Contains(t, output, "Ranked 2 jobs (2 excluded)")
	assert.Contains(t, output, "Go工程师 @ 美团")
	assert.Contains(t, output, "#2")
}

func TestPrintWeights(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintWeights(feedback.Analysis{
		Weights:   types.DefaultWeights(),
		Preferred: map[types.Dimension]feedback.DimensionStats{types.DimensionSkills: {Average: 85, Samples: 3}},
		Summary:   feedback.Summary{Total: 3, Positive: 2},
	})
	output := buf.String()

	assert.Contains(t, output, "3 total, 2 positive, 0 negative")
	assert.Contains(t, output, "avg 85.0 (n=3)")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	years, low, high := 6, 25, 35
	NewPrinter(&buf).PrintAnalysis(&advisor.ResumeAnalysis{
		CoreSkills:      []advisor.SkillLevel{{Name: "Go", Proficiency: "精通"}, {Name: "MySQL"}},
		YearsExperience: &years,
		Level:           advisor.LevelSenior,
		SalaryMin:       &low,
		SalaryMax:       &high,
		Fallback:        true,
	})
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "Go (精通)")
	assert.Contains(t, output, "25-35k")
	assert.Contains(t, output, "Source:     rules")
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPlan(&advisor.SearchPlan{
		Paths: []advisor.SearchPath{
			{Name: "主路径", Priority: 1, JobTitles: []string{"Go后端"}, Locations: []string{"杭州"}},
			{Name: "探索路径", Priority: 2},
		},
		Weights: types.DefaultWeights(),
		Radius:  advisor.RadiusModerate,
	})
	output := buf.String()

	assert.Contains(t, output, "Radius: 适中")
	assert.Contains(t, output, "1. 主路径")
	assert.Contains(t, output, "@ 杭州")
	assert.Less(t, strings.Index(output, "position"), strings.Index(output, "skills"))
}

func TestPrintStrategies(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStrategies([]feedback.RankedStrategy{
		{Strategy: "激进", Quality: feedback.Quality{Score: 72.5, EngagementRate: 0.5, ConversionRate: 0.25}},
	})
	assert.Contains(t, buf.String(), "72.50  激进  (engaged 50%, converted 25%)")

	buf.Reset()
	NewPrinter(&buf).PrintStrategies(nil)
	assert.Contains(t, buf.String(), "No rated searches yet")
}

func TestPrintQualityAndHistory(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintQuality(&pipeline.QualityResult{
		SearchID:     "s-1",
		Strategy:     "保守",
		JobsReturned: 4,
		Interactions: 2,
		Quality:      feedback.Quality{Score: 40, EngagementRate: 0.5, AverageRating: 4},
	})
	output := buf.String()
	assert.Contains(t, output, "4 jobs, 2 interactions")
	assert.Contains(t, output, "Quality:    40.00")

	buf.Reset()
	jobID := uuid.New()
	NewPrinter(&buf).PrintHistory([]db.MatchRecord{
		{JobID: jobID, Mode: "precise", Score: 88, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	output = buf.String()
	assert.Contains(t, output, "1 stored matches")
	assert.Contains(t, output, "88.00  precise "+jobID.String())
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgress(pipeline.ProgressEvent{Stage: pipeline.StageJobs, Message: "3 jobs ready"})
	assert.Equal(t, "» [jobs] 3 jobs ready\n", buf.String())
}
