package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestDefault_DirectionTable(t *testing.T) {
	tables := Default()
	require.Len(t, tables.Directions, 18)

	technical := 0
	for _, d := range tables.Directions {
		assert.NotEmpty(t, d.Keywords, d.Name)
		for _, kw := range d.Keywords {
			assert.Equal(t, kw, strings.ToLower(kw), "direction keywords are stored lowercase")
		}
		if d.Technical {
			technical++
		}
	}
	assert.Equal(t, 11, technical)

	d, ok := tables.Direction(Product)
	require.True(t, ok)
	assert.False(t, d.Technical)
}

func TestDefault_EducationPrecedence(t *testing.T) {
	tables := Default()
	assert.Equal(t, "博士", tables.Education[0].Keyword)

	level, ok := tables.EducationLevelOf("研究生")
	require.True(t, ok)
	assert.Equal(t, types.EducationMaster, level)

	_, ok = tables.EducationLevelOf("小学")
	assert.False(t, ok)
}

func TestAllSkills_Deduplicated(t *testing.T) {
	all := Default().AllSkills()
	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s], "duplicate skill %q", s)
		seen[s] = true
	}
	assert.Equal(t, "Python", all[0])
	assert.Contains(t, all, "Kubernetes")
}

func TestParse_MergesOverlay(t *testing.T) {
	overlay := []byte(`
skill_categories:
  - name: databases
    skills: [MySQL, DuckDB]
  - name: observability
    skills: [Prometheus]
skill_aliases:
  Prom: prometheus
companies: [OpenAI]
directions:
  - name: devops
    keywords: [Terraform]
  - name: embedded
    label: 嵌入式
    technical: true
    keywords: [嵌入式, MCU]
`)
	tables, err := Parse(overlay)
	require.NoError(t, err)

	var dbs SkillCategory
	for _, c := range tables.SkillCategories {
		if c.Name == "databases" {
			dbs = c
		}
	}
	assert.Equal(t, "MySQL", dbs.Skills[0])
	assert.Equal(t, "DuckDB", dbs.Skills[len(dbs.Skills)-1])
	assert.Equal(t, "observability", tables.SkillCategories[len(tables.SkillCategories)-1].Name)

	alias, ok := tables.Alias("prom")
	require.True(t, ok)
	assert.Equal(t, "prometheus", alias)

	assert.Contains(t, tables.Companies, "OpenAI")

	devops, _ := tables.Direction(DevOps)
	assert.Contains(t, devops.Keywords, "terraform")

	embedded, ok := tables.Direction("embedded")
	require.True(t, ok)
	assert.True(t, embedded.Technical)
	assert.Equal(t, []string{"嵌入式", "mcu"}, embedded.Keywords)

	// the shared defaults stay untouched
	assert.NotContains(t, Default().Companies, "OpenAI")
	_, ok = Default().Direction("embedded")
	assert.False(t, ok)
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), tables)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cities: [珠海]\n"), 0o600))

	tables, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "珠海", tables.Cities[len(tables.Cities)-1])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("companies: {not: [a list"))
	assert.Error(t, err)
}
