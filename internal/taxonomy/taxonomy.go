// Package taxonomy holds the read-only lookup tables that drive extraction,
// direction classification and skill normalization.
//
// Tables are built once and never mutated afterwards, so a *Tables value can be
// shared across goroutines without locking. Use Default for the built-in data or
// Load to merge a YAML overlay on top of it.
package taxonomy

import (
	"sync"

	"github.com/jonathan/job-matcher/internal/types"
)

// SkillCategory is a named group of skill keywords. Order inside Skills is the
// scan order used by the extractor.
type SkillCategory struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Direction is one coarse occupational category with its trigger keywords.
// Keywords are matched case-insensitively by containment.
type Direction struct {
	Name      string   `yaml:"name" json:"name"`
	Label     string   `yaml:"label" json:"label"`
	Technical bool     `yaml:"technical" json:"technical"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
}

// EducationKeyword maps a degree keyword to its ordinal level
type EducationKeyword struct {
	Keyword string               `yaml:"keyword" json:"keyword"`
	Level   types.EducationLevel `yaml:"level" json:"level"`
}

// Tables bundles every lookup table. Slices keep their declared order because
// several extractors are "first hit wins".
type Tables struct {
	SkillCategories []SkillCategory    `yaml:"skill_categories"`
	SkillAliases    map[string]string  `yaml:"skill_aliases"`
	Companies       []string           `yaml:"companies"`
	Universities    []string           `yaml:"universities"`
	Cities          []string           `yaml:"cities"`
	Certifications  []string           `yaml:"certifications"`
	Benefits        []string           `yaml:"benefits"`
	Directions      []Direction        `yaml:"directions"`
	Education       []EducationKeyword `yaml:"education"`
}

var defaultTables = sync.OnceValue(builtin)

// Default returns the shared built-in tables. Callers must not modify the result.
func Default() *Tables {
	return defaultTables()
}

// AllSkills returns every skill keyword across categories in table order, deduplicated
func (t *Tables) AllSkills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cat := range t.SkillCategories {
		for _, s := range cat.Skills {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Alias returns the canonical form registered for a lowercased skill name
func (t *Tables) Alias(lower string) (string, bool) {
	canonical, ok := t.SkillAliases[lower]
	return canonical, ok
}

// Direction looks up a direction by name
func (t *Tables) Direction(name string) (Direction, bool) {
	for _, d := range t.Directions {
		if d.Name == name {
			return d, true
		}
	}
	return Direction{}, false
}

// EducationLevelOf returns the ordinal level for an exact degree keyword
func (t *Tables) EducationLevelOf(keyword string) (types.EducationLevel, bool) {
	for _, e := range t.Education {
		if e.Keyword == keyword {
			return e.Level, true
		}
	}
	return types.EducationUnknown, false
}

func (t *Tables) clone() *Tables {
	out := &Tables{
		SkillCategories: make([]SkillCategory, len(t.SkillCategories)),
		SkillAliases:    make(map[string]string, len(t.SkillAliases)),
		Companies:       append([]string(nil), t.Companies...),
		Universities:    append([]string(nil), t.Universities...),
		Cities:          append([]string(nil), t.Cities...),
		Certifications:  append([]string(nil), t.Certifications...),
		Benefits:        append([]string(nil), t.Benefits...),
		Directions:      make([]Direction, len(t.Directions)),
		Education:       append([]EducationKeyword(nil), t.Education...),
	}
	for i, c := range t.SkillCategories {
		out.SkillCategories[i] = SkillCategory{Name: c.Name, Skills: append([]string(nil), c.Skills...)}
	}
	for k, v := range t.SkillAliases {
		out.SkillAliases[k] = v
	}
	for i, d := range t.Directions {
		d.Keywords = append([]string(nil), d.Keywords...)
		out.Directions[i] = d
	}
	return out
}
