package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

func intPtr(v int) *int { return &v }

func TestScoreExperience_Range(t *testing.T) {
	tests := []struct {
		name  string
		years int
		want  float64
		match bool
	}{
		{name: "inside range", years: 4, want: 100, match: true},
		{name: "lower bound", years: 3, want: 100, match: true},
		{name: "one year short", years: 2, want: 80, match: true},
		{name: "three years short", years: 0, want: 40},
		{name: "one year over", years: 6, want: 90, match: true},
		{name: "three years over floors at 70", years: 8, want: 70},
		{name: "far over stays at floor", years: 20, want: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, detail := ScoreExperience(intPtr(tt.years), "3-5年")
			assert.Equal(t, tt.want, score)
			assert.Equal(t, tt.match, detail.Match)
			assert.Equal(t, "3-5年", detail.Required)
		})
	}
}

func TestScoreExperience_RangeBoundaries(t *testing.T) {
	score, _ := ScoreExperience(intPtr(2), "3-5年")
	assert.LessOrEqual(t, score, 80.0)

	score, _ = ScoreExperience(intPtr(8), "3-5年")
	assert.GreaterOrEqual(t, score, 70.0)

	score, _ = ScoreExperience(intPtr(0), "8-10年")
	assert.Equal(t, 0.0, score)
}

func TestScoreExperience_OpenEnded(t *testing.T) {
	tests := []struct {
		name        string
		years       int
		requirement string
		want        float64
	}{
		{name: "exact", years: 3, requirement: "3年以上", want: 100},
		{name: "within grace", years: 6, requirement: "3年以上", want: 100},
		{name: "beyond grace", years: 8, requirement: "3年以上", want: 90},
		{name: "far beyond floors at 70", years: 30, requirement: "3年以上", want: 70},
		{name: "short", years: 1, requirement: "3+年", want: 60},
		{name: "english", years: 5, requirement: "5+ years", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := ScoreExperience(intPtr(tt.years), tt.requirement)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreExperience_Defaults(t *testing.T) {
	score, detail := ScoreExperience(nil, "3年以上")
	assert.Equal(t, 50.0, score)
	assert.NotEmpty(t, detail.Reason)

	score, _ = ScoreExperience(intPtr(2), "")
	assert.Equal(t, 80.0, score)

	score, detail = ScoreExperience(intPtr(0), types.ExperienceUnlimited)
	assert.Equal(t, 100.0, score)
	assert.True(t, detail.Match)

	score, _ = ScoreExperience(intPtr(0), "经验不限")
	assert.Equal(t, 100.0, score)

	score, _ = ScoreExperience(intPtr(4), "丰富经验")
	assert.Equal(t, 50.0, score)
}

func TestScoreExperience_OverflowingRequirement(t *testing.T) {
	tests := []string{
		"99999999999999999999年以上",
		"3-99999999999999999999年",
	}
	for _, requirement := range tests {
		score, detail := ScoreExperience(intPtr(5), requirement)
		assert.Equal(t, 50.0, score, requirement)
		assert.False(t, detail.Match)
		assert.Equal(t, "experience requirement not understood", detail.Reason)
	}
}

func TestParseEducationLevel(t *testing.T) {
	tests := []struct {
		text string
		want types.EducationLevel
	}{
		{"博士", types.EducationDoctorate},
		{"统招硕士及以上", types.EducationMaster},
		{"研究生", types.EducationMaster},
		{"本科", types.EducationBachelor},
		{"本科及以上学历", types.EducationBachelor},
		{"大专", types.EducationAssociate},
		{"高中", types.EducationHighSchool},
		{"Master of Science", types.EducationMaster},
		{"PhD", types.EducationDoctorate},
		{"", types.EducationUnknown},
		{"自学", types.EducationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEducationLevel(nil, tt.text))
		})
	}
}

func TestScoreEducation(t *testing.T) {
	tests := []struct {
		name        string
		resume      string
		requirement string
		want        float64
		match       bool
	}{
		{name: "bachelor vs master", resume: "本科", requirement: "硕士", want: 75},
		{name: "meets", resume: "本科", requirement: "本科及以上", want: 100, match: true},
		{name: "exceeds", resume: "博士", requirement: "本科", want: 100, match: true},
		{name: "two levels short", resume: "大专", requirement: "硕士", want: 50},
		{name: "high school vs doctorate", resume: "高中", requirement: "博士", want: 0},
		{name: "no resume data", resume: "", requirement: "本科", want: 50},
		{name: "no requirement", resume: "本科", requirement: "", want: 80},
		{name: "unlimited", resume: "大专", requirement: "学历不限", want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, detail := ScoreEducation(nil, tt.resume, tt.requirement)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, tt.want, detail.Score)
			assert.Equal(t, tt.match, detail.Match)
		})
	}
}

func TestScoreEducation_OverlayKeywords(t *testing.T) {
	tables, err := taxonomy.Parse([]byte("education:\n  - keyword: MBA\n    level: 4\n"))
	require.NoError(t, err)

	assert.Equal(t, types.EducationUnknown, ParseEducationLevel(nil, "MBA"))
	assert.Equal(t, types.EducationMaster, ParseEducationLevel(tables, "MBA"))
	assert.Equal(t, types.EducationBachelor, ParseEducationLevel(tables, "本科"))

	score, detail := ScoreEducation(tables, "MBA", "硕士")
	assert.Equal(t, 100.0, score)
	assert.True(t, detail.Match)

	score, _ = ScoreEducation(nil, "MBA", "硕士")
	assert.Equal(t, 0.0, score, "unknown degree is four levels short of a master")
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestScoreSemantic(t *testing.T) {
	score, detail := ScoreSemantic([]float32{1, 1}, []float32{1, 1})
	assert.InDelta(t, 100.0, score, 1e-9)
	assert.Equal(t, types.SemanticEmbedding, detail.Method)

	score, detail = ScoreSemantic(nil, []float32{1, 1})
	assert.Equal(t, NeutralSemanticScore, score)
	assert.Equal(t, types.SemanticNotAvailable, detail.Method)

	score, _ = ScoreSemantic([]float32{1, 0}, []float32{-1, 0})
	assert.Equal(t, 0.0, score, "negative similarity is clamped")

	score, detail = ScoreSemantic([]float32{1}, []float32{1, 0})
	assert.Equal(t, NeutralSemanticScore, score)
	assert.Equal(t, types.SemanticNotAvailable, detail.Method)
}
