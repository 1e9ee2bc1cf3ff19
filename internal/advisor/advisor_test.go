package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/types"
)

type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func intPtr(v int) *int { return &v }

func sampleProfile() *types.ResumeProfile {
	return &types.ResumeProfile{
		Name:            "张三",
		YearsExperience: intPtr(6),
		CurrentPosition: "高级Python开发工程师",
		Skills:          types.FlatSkills("Python", "Django", "MySQL"),
		JobIntention: &types.JobIntention{
			Positions:  []string{"后端开发", " "},
			Industries: []string{"互联网"},
			SalaryMin:  intPtr(25),
			SalaryMax:  intPtr(35),
		},
		WorkExperiences: []types.WorkExperience{
			{Company: "字节跳动", Achievements: []string{"QPS 提升 3 倍", ""}},
		},
	}
}

func TestAnalyzeResume_NoModel(t *testing.T) {
	a := New(Config{})

	got := a.AnalyzeResume(context.Background(), sampleProfile(), "")

	assert.True(t, got.Fallback)
	assert.Contains(t, got.Error, ErrNoModel.Error())
	assert.Equal(t, LevelSenior, got.Level)
	assert.Equal(t, []SkillLevel{{Name: "Python"}, {Name: "Django"}, {Name: "MySQL"}}, got.CoreSkills)
	assert.Equal(t, []string{"后端开发"}, got.RecommendedPositions)
	assert.Equal(t, []string{"QPS 提升 3 倍"}, got.Highlights)
	assert.Equal(t, 25, *got.SalaryMin)
}

func TestRuleAnalysis_Levels(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{0, LevelJunior},
		{3, LevelMid},
		{5, LevelSenior},
		{10, LevelPrincipal},
	}
	for _, tt := range tests {
		got := RuleAnalysis(&types.ResumeProfile{YearsExperience: intPtr(tt.years), CurrentPosition: "测试工程师"})
		assert.Equal(t, tt.want, got.Level, "years=%d", tt.years)
		assert.Equal(t, []string{"测试工程师"}, got.RecommendedPositions)
	}

	empty := RuleAnalysis(nil)
	assert.True(t, empty.Fallback)
	assert.Empty(t, empty.Level)
	assert.Empty(t, empty.RecommendedPositions)
}

func TestAnalyzeResume_ModelAnswer(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"core_skills": [{"name": "Python", "proficiency": "精通"}, {"name": " "}],
		"years_experience": 5.6,
		"level": "高级",
		"strengths": ["架构经验", "", "架构经验"],
		"salary_min": 30,
		"salary_max": null,
		"recommended_positions": []
	}` + "\n```"}
	a := New(Config{Client: client})

	got := a.AnalyzeResume(context.Background(), sampleProfile(), "张三 简历原文")

	assert.False(t, got.Fallback)
	assert.Equal(t, []SkillLevel{{Name: "Python", Proficiency: "精通"}}, got.CoreSkills)
	require.NotNil(t, got.YearsExperience)
	assert.Equal(t, 6, *got.YearsExperience)
	assert.Equal(t, []string{"架构经验"}, got.Strengths)
	assert.Equal(t, 30, *got.SalaryMin)
	assert.Nil(t, got.SalaryMax)
	assert.Equal(t, []string{"后端开发"}, got.RecommendedPositions, "empty answer falls back to the intention")

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "姓名: 张三")
	assert.Contains(t, client.prompts[0], "[BEGIN QUOTED RESUME")
}

func TestAnalyzeResume_UnusableAnswer(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		want   string
	}{
		{"schema mismatch", &fakeClient{response: `{"core_skills": "Python"}`}, "analysis.schema.json"},
		{"call failure", &fakeClient{err: errors.New("quota exceeded")}, "quota exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(Config{Client: tt.client}).AnalyzeResume(context.Background(), sampleProfile(), "text")
			assert.True(t, got.Fallback)
			assert.Contains(t, got.Error, tt.want)
			assert.Equal(t, LevelSenior, got.Level)
		})
	}
}

func TestPlanSearch_ModelAnswer(t *testing.T) {
	client := &fakeClient{response: `{
		"search_paths": [
			{"name": "探索路径", "priority": 3, "job_titles": ["数据工程师"]},
			{"name": "备选路径", "priority": 0},
			{"name": "主路径", "priority": 1, "job_titles": ["Python后端", "Python后端"], "salary_min": 25.4}
		],
		"dimension_weights": {"skills": 0.5, "experience": 0.5, "bogus": 3},
		"search_radius": "很大",
		"rationale": " 技能优先 "
	}`}
	a := New(Config{Client: client})
	refs := []feedback.RankedStrategy{
		{Strategy: "激进", Quality: feedback.Quality{Score: 80}},
		{Strategy: "适中", Quality: feedback.Quality{Score: 60}},
		{Strategy: "保守", Quality: feedback.Quality{Score: 40}},
		{Strategy: "保守", Quality: feedback.Quality{Score: 20}},
	}

	plan := a.PlanSearch(context.Background(), PlanInput{
		Analysis:   RuleAnalysis(sampleProfile()),
		Weights:    types.DefaultWeights(),
		References: refs,
	})

	assert.False(t, plan.Fallback)
	require.Len(t, plan.Paths, 3)
	assert.Equal(t, []string{"主路径", "备选路径", "探索路径"}, []string{plan.Paths[0].Name, plan.Paths[1].Name, plan.Paths[2].Name})
	assert.Equal(t, 2, plan.Paths[1].Priority, "missing priority takes the answer position")
	assert.Equal(t, []string{"Python后端"}, plan.Paths[0].JobTitles)
	assert.Equal(t, 25, *plan.Paths[0].SalaryMin)

	assert.Equal(t, RadiusModerate, plan.Radius)
	assert.Equal(t, "技能优先", plan.Rationale)
	assert.Len(t, plan.References, maxReferences)

	assert.True(t, plan.Weights.IsNormalized())
	assert.Len(t, plan.Weights, len(types.ReportingDimensions))
	assert.NotContains(t, plan.Weights, types.Dimension("bogus"))
	assert.InDelta(t, 0.5/1.55, plan.Weights[types.DimensionSkills], 1e-9)
	assert.InDelta(t, 0.15/1.55, plan.Weights[types.DimensionSalary], 1e-9)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "1. 激进（质量分 80.00")
	assert.NotContains(t, client.prompts[0], "质量分 20.00")
	assert.Contains(t, client.prompts[0], "skills: 0.25")
}

func TestPlanSearch_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
		want   string
	}{
		{"no model", nil, ErrNoModel.Error()},
		{"no paths", &fakeClient{response: `{"search_paths": []}`}, "no search paths"},
		{"invalid JSON", &fakeClient{response: `not json`}, "plan.schema.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := types.Weights{types.DimensionSkills: 2, types.DimensionSalary: 2}
			plan := New(Config{Client: tt.client}).PlanSearch(context.Background(), PlanInput{
				Analysis:    RuleAnalysis(sampleProfile()),
				Preferences: Preferences{Locations: []string{"杭州"}, SalaryMax: intPtr(40)},
				Weights:     weights,
			})

			assert.True(t, plan.Fallback)
			assert.Contains(t, plan.Error, tt.want)
			assert.Equal(t, RadiusModerate, plan.Radius)
			require.Len(t, plan.Paths, 1)
			path := plan.Paths[0]
			assert.Equal(t, []string{"后端开发"}, path.JobTitles)
			assert.Equal(t, []string{"杭州"}, path.Locations)
			assert.Nil(t, path.SalaryMin, "preferences replace the analysis salary range")
			assert.Equal(t, 40, *path.SalaryMax)
			assert.Equal(t, types.Weights{types.DimensionSkills: 0.5, types.DimensionSalary: 0.5}, plan.Weights)
		})
	}
}

func TestPlanWeights(t *testing.T) {
	fallback := types.DefaultWeights()

	assert.Equal(t, fallback, planWeights(nil, fallback))
	assert.Equal(t, fallback, planWeights(map[string]float64{"bogus": 1}, fallback))

	got := planWeights(map[string]float64{"skills": -1, "growth": 0.3}, fallback)
	assert.True(t, got.IsNormalized())
	assert.InDelta(t, 0.25/1.2, got[types.DimensionSkills], 1e-9, "negative weight replaced by the fallback share")
	assert.InDelta(t, 0.3/1.2, got[types.DimensionGrowth], 1e-9)
}
