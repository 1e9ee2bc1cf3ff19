// Package skills normalizes skill names and computes required/preferred
// skill coverage between a resume and a job.
package skills

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-matcher/internal/taxonomy"
)

// minSubstringRunes is the shortest normalized form allowed to match by containment.
// Single letters such as "r" or "c" would otherwise match almost every skill.
const minSubstringRunes = 2

// Normalizer compares skill names using the taxonomy alias table
type Normalizer struct {
	tables *taxonomy.Tables
}

// NewNormalizer creates a normalizer; nil tables fall back to taxonomy.Default()
func NewNormalizer(tables *taxonomy.Tables) *Normalizer {
	if tables == nil {
		tables = taxonomy.Default()
	}
	return &Normalizer{tables: tables}
}

// Normalize lowercases and trims a skill name and applies the alias table.
// Framework names with a ".js" suffix are retried without it.
func (n *Normalizer) Normalize(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	if s == "" {
		return ""
	}
	if canonical, ok := n.tables.Alias(s); ok {
		return canonical
	}
	if base, ok := strings.CutSuffix(s, ".js"); ok && base != "" {
		if canonical, ok := n.tables.Alias(base); ok {
			return canonical
		}
		return base
	}
	return s
}

// Matches reports whether two skill names refer to the same skill: equal after
// normalization, one contained in the other, or equal once every
// non-alphanumeric character is removed.
func (n *Normalizer) Matches(a, b string) bool {
	na, nb := n.Normalize(a), n.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if containsEither(na, nb) {
		return true
	}
	ca, cb := stripNonAlnum(na), stripNonAlnum(nb)
	return ca != "" && ca == cb
}

func containsEither(a, b string) bool {
	short, long := a, b
	if len([]rune(short)) > len([]rune(long)) {
		short, long = long, short
	}
	if len([]rune(short)) < minSubstringRunes {
		return false
	}
	return strings.Contains(long, short)
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize normalizes a skill name with the built-in alias table
func Normalize(skill string) string {
	return defaultNormalizer.Normalize(skill)
}

// Matches compares two skill names with the built-in alias table
func Matches(a, b string) bool {
	return defaultNormalizer.Matches(a, b)
}
