package matching

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

const sampleResume = `张三
电话：13812345678 邮箱：zhangsan@example.com
男 | 28岁 | 5年工作经验 | 杭州
当前职位：高级Python开发工程师
教育背景：
2012.09-2016.06 浙江大学 计算机科学与技术 本科
工作经历：
2019.07-至今 字节跳动 高级Python开发工程师
2016.07-2019.06 网易 Python开发工程师
技能：
熟悉Python、Django、FastAPI、MySQL、Redis、Docker、Kubernetes`

const sampleJob = `Python后端开发工程师
公司：字节跳动
工作地点：北京
薪资：15k-25k
经验要求：3-5年
学历要求：本科及以上
任职要求：
1. 熟悉Python，掌握Django或FastAPI框架
2. 熟悉MySQL、Redis等数据库
3. 有Docker、Kubernetes经验者优先`

type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	for prefix, vec := range f.vectors {
		if strings.HasPrefix(text, prefix) {
			return vec, nil
		}
	}
	return []float32{1, 0}, nil
}

func intPtr(v int) *int { return &v }

func backendResume() *types.ResumeProfile {
	return &types.ResumeProfile{
		Name:            "李四",
		CurrentPosition: "Go开发工程师",
		YearsExperience: intPtr(4),
		Education:       "本科",
		Skills:          types.FlatSkills("Go", "MySQL", "k8s"),
	}
}

func backendJob() *types.JobProfile {
	return &types.JobProfile{
		Title:              "Go后端工程师",
		ExperienceRequired: "3-5年",
		EducationRequired:  "本科",
		RequiredSkills:     []string{"Go", "Kubernetes"},
		PreferredSkills:    []string{"Redis"},
	}
}

func salesJob() *types.JobProfile {
	return &types.JobProfile{Title: "大客户销售经理", RequiredSkills: []string{"谈判"}}
}

func TestFastMatch_EndToEnd(t *testing.T) {
	ex := extraction.New(extraction.Config{})
	resume := ex.ExtractResume(context.Background(), sampleResume, extraction.Options{})
	job := ex.ExtractJob(context.Background(), sampleJob, extraction.Options{})

	score := FastMatch(resume.Fields, job.Fields, nil, nil)

	assert.Greater(t, score.TotalScore, 85.0)
	assert.InDelta(t, 95.0, score.TotalScore, 1e-9)
	assert.Empty(t, score.Reason)
	assert.Equal(t, 100.0, score.DimensionScores[types.DimensionPosition])
	assert.Equal(t, 100.0, score.DimensionScores[types.DimensionSkills])
	assert.Equal(t, 100.0, score.DimensionScores[types.DimensionExperience])
	assert.Equal(t, 100.0, score.DimensionScores[types.DimensionEducation])
	assert.Equal(t, types.SemanticNotAvailable, score.Details.Semantic.Method)
}

func TestFastMatch_DirectionGate(t *testing.T) {
	resume := &types.ResumeProfile{CurrentPosition: "销售经理", Skills: types.FlatSkills("Java")}
	job := &types.JobProfile{Title: "Java后端开发工程师", RequiredSkills: []string{"Java"}}

	score := FastMatch(resume, job, []float32{1}, []float32{1})

	assert.LessOrEqual(t, score.TotalScore, 15.0)
	assert.InDelta(t, 5.0, score.TotalScore, 1e-9)
	assert.Equal(t, ReasonDirectionMismatch, score.Reason)
	assert.True(t, Gated(score))
	assert.Equal(t, types.Weights{types.DimensionPosition: 1}, score.Weights)
	assert.Nil(t, score.Details.Skills)
	require.NotNil(t, score.Details.Position)
	assert.Equal(t, 10.0, score.Details.Position.Score)
}

func TestFastWeights_SumToExactlyOne(t *testing.T) {
	w := FastWeights()
	assert.Equal(t, 1.0, w.Sum())
	assert.Equal(t, w, w.Normalize())
	assert.Equal(t, 1.0, w.Apply(map[types.Dimension]float64{
		types.DimensionPosition: 1, types.DimensionSkills: 1, types.DimensionExperience: 1,
		types.DimensionEducation: 1, types.DimensionSemantic: 1,
	}))
}

func TestFastMatch_WeightedSum(t *testing.T) {
	pairs := []struct {
		resume *types.ResumeProfile
		job    *types.JobProfile
	}{
		{backendResume(), backendJob()},
		{backendResume(), salesJob()},
		{&types.ResumeProfile{}, backendJob()},
		{nil, nil},
	}

	for _, p := range pairs {
		score := FastMatch(p.resume, p.job, []float32{1, 2}, []float32{2, 1})
		assert.True(t, score.Weights.IsNormalized())
		assert.InDelta(t, score.Weights.Apply(score.DimensionScores), score.TotalScore, 1e-9)
		assert.GreaterOrEqual(t, score.TotalScore, 0.0)
		assert.LessOrEqual(t, score.TotalScore, 100.0)
	}
}

func TestFastMatch_EmptyProfiles(t *testing.T) {
	score := FastMatch(nil, nil, nil, nil)

	assert.False(t, Gated(score))
	assert.Equal(t, 50.0, score.DimensionScores[types.DimensionPosition])
	assert.Equal(t, 0.0, score.DimensionScores[types.DimensionSkills])
	assert.InDelta(t, 37.5, score.TotalScore, 1e-9)
}

func TestFastMatch_Deterministic(t *testing.T) {
	first := FastMatch(backendResume(), backendJob(), []float32{0.3, 0.4}, []float32{0.4, 0.3})
	for range 5 {
		assert.Equal(t, first, FastMatch(backendResume(), backendJob(), []float32{0.3, 0.4}, []float32{0.4, 0.3}))
	}
}

func TestFastMatch_SemanticVectors(t *testing.T) {
	same := FastMatch(backendResume(), backendJob(), []float32{1, 1}, []float32{2, 2})
	assert.InDelta(t, 100.0, same.DimensionScores[types.DimensionSemantic], 1e-6)
	assert.Equal(t, types.SemanticEmbedding, same.Details.Semantic.Method)

	missing := FastMatch(backendResume(), backendJob(), nil, []float32{1})
	assert.Equal(t, 50.0, missing.DimensionScores[types.DimensionSemantic])
}

func TestFastMatch_AliasSkills(t *testing.T) {
	score := FastMatch(backendResume(), backendJob(), nil, nil)
	require.NotNil(t, score.Details.Skills)
	assert.Equal(t, []string{"Go", "Kubernetes"}, score.Details.Skills.MatchedRequired)
	assert.Empty(t, score.Details.Skills.MatchedPreferred)
	assert.Equal(t, 80.0, score.DimensionScores[types.DimensionSkills])
}

func TestScorer_EducationUsesOverlay(t *testing.T) {
	tables, err := taxonomy.Parse([]byte("education:\n  - keyword: MBA\n    level: 4\n"))
	require.NoError(t, err)
	resume := backendResume()
	resume.Education = "MBA"
	job := backendJob()
	job.EducationRequired = "硕士及以上"

	builtin := FastMatch(resume, job, nil, nil)
	overlay := NewScorer(tables).FastMatch(resume, job, nil, nil)

	assert.Equal(t, 0.0, builtin.DimensionScores[types.DimensionEducation])
	assert.Equal(t, 100.0, overlay.DimensionScores[types.DimensionEducation])
	assert.Greater(t, overlay.TotalScore, builtin.TotalScore)
}

func TestPreciseMatch_Success(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"overall_score": 80,
		"dimensions": {"skills": 80, "experience": 80, "salary": 80, "location": 80, "culture": 80, "growth": 80, "stability": 80},
		"strengths": ["Go 经验扎实"],
		"weaknesses": "缺少 Redis 经验",
		"recommendation": "推荐申请",
		"summary": "整体匹配度较高"
	}` + "\n```"}
	m := New(Config{Client: client})

	result := m.PreciseMatch(context.Background(), backendResume(), backendJob(), "resume text", "job text")

	assert.Equal(t, 80.0, result.Score)
	assert.Equal(t, "整体匹配度较高", result.Analysis)
	assert.False(t, result.Detail.Fallback)
	assert.Equal(t, []string{"Go 经验扎实"}, result.Detail.Strengths)
	assert.Equal(t, []string{"缺少 Redis 经验"}, result.Detail.Weaknesses)
	assert.Equal(t, 80.0, result.Detail.Dimensions[types.DimensionGrowth])
	assert.Nil(t, result.Fast)

	require.Equal(t, 1, client.calls)
	assert.Contains(t, client.prompts[0], "Go后端工程师")
	assert.Contains(t, client.prompts[0], "4年")
	assert.Contains(t, client.prompts[0], "公司: 未提供")
	assert.NotContains(t, client.prompts[0], "{{.")
}

func TestPreciseMatch_ScoreVerification(t *testing.T) {
	dims := `"dimensions": {"skills": 90, "experience": 80, "salary": 70, "location": 60, "culture": 50, "growth": 40, "stability": 30}`

	tests := []struct {
		name    string
		overall string
		want    float64
	}{
		{name: "far from weighted sum", overall: "95", want: 67},
		{name: "within tolerance", overall: "70", want: 70},
		{name: "at tolerance", overall: "72", want: 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: `{"overall_score": ` + tt.overall + `, ` + dims + `}`}
			result := New(Config{Client: client}).PreciseMatch(context.Background(), backendResume(), backendJob(), "", "")
			assert.InDelta(t, tt.want, result.Score, 1e-9)
			assert.InDelta(t, tt.want, result.Detail.OverallScore, 1e-9)
			assert.Equal(t, missingAnalysis, result.Analysis)
		})
	}
}

func TestPreciseMatch_CustomWeights(t *testing.T) {
	client := &fakeClient{response: `{"overall_score": 50, "dimensions": {"skills": 100, "experience": 0}}`}
	m := New(Config{Client: client}).WithWeights(types.Weights{
		types.DimensionSkills:     3,
		types.DimensionExperience: 1,
	})

	result := m.PreciseMatch(context.Background(), backendResume(), backendJob(), "", "")
	assert.InDelta(t, 75.0, result.Score, 1e-9)
	assert.True(t, m.Weights().IsNormalized())
}

func TestPreciseMatch_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
		errMsg string
	}{
		{name: "no client", client: nil, errMsg: ErrNoModel.Error()},
		{name: "call error", client: &fakeClient{err: &llm.APICallError{Message: "timeout"}}, errMsg: "timeout"},
		{name: "not json", client: &fakeClient{response: "抱歉，我无法完成"}, errMsg: "precise match verdict"},
		{name: "score out of range", client: &fakeClient{response: `{"overall_score": 150, "dimensions": {}}`}, errMsg: "precise match verdict"},
		{name: "missing dimensions", client: &fakeClient{response: `{"overall_score": 70}`}, errMsg: "precise match verdict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			m := New(Config{Client: tt.client, Logger: zap.New(core)})

			result := m.PreciseMatch(context.Background(), backendResume(), backendJob(), "", "")
			fast := FastMatch(backendResume(), backendJob(), nil, nil)

			assert.True(t, result.Detail.Fallback)
			assert.InDelta(t, round2(fast.TotalScore), result.Score, 1e-9)
			assert.True(t, strings.HasPrefix(result.Analysis, "大模型分析失败，使用快速匹配结果: "))
			assert.True(t, strings.HasSuffix(result.Analysis, "分"))
			assert.Contains(t, result.Detail.Error, tt.errMsg)
			require.NotNil(t, result.Fast)
			assert.Equal(t, 1, logs.FilterMessage("precise match failed, using fast match score").Len())
		})
	}
}

func TestPreciseMatch_FallbackAnalysisText(t *testing.T) {
	result := New(Config{}).PreciseMatch(context.Background(), nil, nil, "", "")
	assert.Equal(t, "大模型分析失败，使用快速匹配结果: 37.5分", result.Analysis)
}

func TestMatchWithEmbeddings(t *testing.T) {
	t.Run("vectors feed the semantic score", func(t *testing.T) {
		m := New(Config{Embedder: &fakeEmbedder{}})
		score := m.MatchWithEmbeddings(context.Background(), backendResume(), backendJob(), "resume", "job")
		assert.InDelta(t, 100.0, score.DimensionScores[types.DimensionSemantic], 1e-6)
		assert.Equal(t, types.SemanticEmbedding, score.Details.Semantic.Method)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		m := New(Config{Embedder: &fakeEmbedder{vectors: map[string][]float32{
			"resume": {1, 0},
			"job":    {0, 1},
		}}})
		score := m.MatchWithEmbeddings(context.Background(), backendResume(), backendJob(), "resume", "job")
		assert.InDelta(t, 0.0, score.DimensionScores[types.DimensionSemantic], 1e-6)
	})

	t.Run("embedding failure stays neutral", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		m := New(Config{Embedder: &fakeEmbedder{err: errors.New("quota exceeded")}, Logger: zap.New(core)})
		score := m.MatchWithEmbeddings(context.Background(), backendResume(), backendJob(), "resume", "job")
		assert.Equal(t, 50.0, score.DimensionScores[types.DimensionSemantic])
		assert.Equal(t, types.SemanticNotAvailable, score.Details.Semantic.Method)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("no embedder", func(t *testing.T) {
		score := New(Config{}).MatchWithEmbeddings(context.Background(), backendResume(), backendJob(), "", "")
		assert.Equal(t, 50.0, score.DimensionScores[types.DimensionSemantic])
	})
}

func TestEmbeddingText(t *testing.T) {
	assert.Equal(t, "raw", ResumeEmbeddingText(backendResume(), "raw"))
	assert.Equal(t, "Go开发工程师 本科 Go MySQL k8s", ResumeEmbeddingText(backendResume(), " "))
	assert.Equal(t, "Go后端工程师 3-5年 本科 Go Kubernetes Redis", JobEmbeddingText(backendJob(), ""))
	assert.Empty(t, ResumeEmbeddingText(nil, ""))
	assert.Empty(t, JobEmbeddingText(nil, ""))
}

func TestBatchMatch(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := New(Config{Logger: zap.New(core)})

	partial := backendJob()
	partial.RequiredSkills = []string{"Go", "Rust"}

	candidates := []Candidate{
		{ID: "sales", Job: salesJob()},
		{ID: "missing"},
		{ID: "partial", Job: partial},
		{ID: "best", Job: backendJob()},
	}

	ranked := m.BatchMatch(context.Background(), backendResume(), "", candidates, BatchOptions{Concurrency: 2})

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"best", "partial", "sales"}, []string{ranked[0].JobID, ranked[1].JobID, ranked[2].JobID})
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Equal(t, 1, logs.FilterMessage("pair excluded from batch").Len())

	limited := m.BatchMatch(context.Background(), backendResume(), "", candidates, BatchOptions{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "best", limited[0].JobID)

	filtered := m.BatchMatch(context.Background(), backendResume(), "", candidates, BatchOptions{MinScore: 20})
	assert.Len(t, filtered, 2)
}

func TestBatchMatch_PreciseSkipsGatedPairs(t *testing.T) {
	client := &fakeClient{response: `{"overall_score": 88, "dimensions": {"skills": 88, "experience": 88, "salary": 88, "location": 88, "culture": 88, "growth": 88, "stability": 88}}`}
	m := New(Config{Client: client})

	ranked := m.BatchMatch(context.Background(), backendResume(), "", []Candidate{
		{ID: "sales", Job: salesJob()},
		{ID: "go", Job: backendJob()},
	}, BatchOptions{Precise: true})

	require.Len(t, ranked, 2)
	assert.Equal(t, "go", ranked[0].JobID)
	assert.Equal(t, 88.0, ranked[0].Score)
	require.NotNil(t, ranked[0].Precise)
	assert.Nil(t, ranked[1].Precise)
	assert.Equal(t, 1, client.calls)
}

func TestBatchMatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranked := New(Config{}).BatchMatch(ctx, backendResume(), "", []Candidate{{ID: "go", Job: backendJob()}}, BatchOptions{})
	assert.Empty(t, ranked)
}
