package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ExtractResume(t *testing.T) {
	prompt, err := Get(ExtractionFile, KeyExtractResume)
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.ResumeText}}")
	assert.Contains(t, prompt, "work_experiences")
}

func TestGet_Missing(t *testing.T) {
	_, err := Get("nonexistent.json", KeyExtractJob)
	assert.ErrorContains(t, err, "no prompt file nonexistent.json")

	_, err = Get(ExtractionFile, "nonexistent-key")
	assert.ErrorContains(t, err, `prompt "nonexistent-key" not found`)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]string
		want string
	}{
		{"substitutes", "{{.Name}} 应聘 {{.Company}}", map[string]string{"Name": "张三", "Company": "字节跳动"}, "张三 应聘 字节跳动"},
		{"no data", "Hello {{.Name}}", nil, "Hello {{.Name}}"},
		{"unknown placeholder kept", "{{.Name}} {{.Other}}", map[string]string{"Name": "x"}, "x {{.Other}}"},
		{"value is not re-expanded", "{{.A}} / {{.B}}", map[string]string{"A": "literal {{.B}}", "B": "b"}, "literal {{.B}} / b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.tmpl, tt.data))
		})
	}
}

func TestRender_PreciseMatch(t *testing.T) {
	prompt, err := Render(MatchingFile, KeyPreciseMatch, map[string]string{
		"Name":  "张三",
		"Title": "Python后端开发工程师",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "姓名: 张三")
	assert.Contains(t, prompt, "职位名称: Python后端开发工程师")
	assert.Contains(t, prompt, "overall_score")
}

func TestKeys(t *testing.T) {
	keys, err := Keys(ExtractionFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyExtractJob, KeyExtractResume}, keys)

	keys, err = Keys(MatchingFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyPreciseMatch}, keys)

	keys, err = Keys(AdvisorFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyAnalyzeResume, KeyPlanSearch}, keys)
}

func TestRender_PlanSearch(t *testing.T) {
	prompt, err := Render(AdvisorFile, KeyPlanSearch, map[string]string{
		"Analysis":   `{"level": "高级"}`,
		"References": "无",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `{"level": "高级"}`)
	assert.Contains(t, prompt, "dimension_weights")
	assert.Contains(t, prompt, "{{.Preferences}}", "placeholders without data stay in place")
}
