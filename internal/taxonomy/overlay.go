package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load returns the built-in tables merged with the YAML overlay at path.
// An empty path returns Default().
//
// Merge rules: list tables are appended (existing entries keep their position,
// duplicates are skipped), skill categories and directions are merged by name
// with new ones appended at the end, and aliases are added or replaced.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy overlay: %w", err)
	}
	return Parse(data)
}

// Parse merges a YAML overlay document into a copy of the built-in tables
func Parse(data []byte) (*Tables, error) {
	var overlay Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy overlay: %w", err)
	}
	merged := Default().clone()
	merged.merge(&overlay)
	return merged, nil
}

func (t *Tables) merge(o *Tables) {
	for _, cat := range o.SkillCategories {
		idx := -1
		for i := range t.SkillCategories {
			if t.SkillCategories[i].Name == cat.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.SkillCategories = append(t.SkillCategories, SkillCategory{Name: cat.Name})
			idx = len(t.SkillCategories) - 1
		}
		t.SkillCategories[idx].Skills = appendUnique(t.SkillCategories[idx].Skills, cat.Skills...)
	}

	for k, v := range o.SkillAliases {
		t.SkillAliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	t.Companies = appendUnique(t.Companies, o.Companies...)
	t.Universities = appendUnique(t.Universities, o.Universities...)
	t.Cities = appendUnique(t.Cities, o.Cities...)
	t.Certifications = appendUnique(t.Certifications, o.Certifications...)
	t.Benefits = appendUnique(t.Benefits, o.Benefits...)

	for _, dir := range o.Directions {
		keywords := make([]string, 0, len(dir.Keywords))
		for _, kw := range dir.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		found := false
		for i := range t.Directions {
			if t.Directions[i].Name == dir.Name {
				t.Directions[i].Keywords = appendUnique(t.Directions[i].Keywords, keywords...)
				found = true
				break
			}
		}
		if !found {
			dir.Keywords = keywords
			t.Directions = append(t.Directions, dir)
		}
	}

	for _, e := range o.Education {
		if _, ok := t.EducationLevelOf(e.Keyword); !ok {
			t.Education = append(t.Education, e)
		}
	}
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}
