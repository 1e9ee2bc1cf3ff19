//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Skills holds resume skills either as a flat list or grouped by category.
// JSON input may be a list, a category object, or a comma separated string.
type Skills struct {
	Flat       []string
	Categories map[string][]string
}

// FlatSkills builds a Skills value from a plain list
func FlatSkills(names ...string) Skills {
	return Skills{Flat: names}
}

// IsZero reports whether no skill is present
func (s Skills) IsZero() bool {
	if len(s.Flat) > 0 {
		return false
	}
	for _, items := range s.Categories {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// Flatten concatenates the flat list and every category list (categories in name order).
// Blank entries and case-insensitive duplicates are dropped.
func (s Skills) Flatten() []string {
	result := make([]string, 0, len(s.Flat))
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		result = append(result, name)
	}

	for _, name := range s.Flat {
		add(name)
	}

	categories := make([]string, 0, len(s.Categories))
	for category := range s.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, name := range s.Categories[category] {
			add(name)
		}
	}
	return result
}

// MarshalJSON writes the categorized form when categories exist, otherwise the flat list
func (s Skills) MarshalJSON() ([]byte, error) {
	if len(s.Categories) > 0 && len(s.Flat) == 0 {
		return json.Marshal(s.Categories)
	}
	flat := s.Flatten()
	return json.Marshal(flat)
}

// UnmarshalJSON accepts a list, an object of category lists, or a comma separated string
func (s *Skills) UnmarshalJSON(data []byte) error {
	*s = Skills{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("skills list: %w", err)
		}
		s.Flat = stringItems(items)
	case '{':
		var groups map[string]any
		if err := json.Unmarshal(data, &groups); err != nil {
			return fmt.Errorf("skills object: %w", err)
		}
		s.Categories = make(map[string][]string, len(groups))
		for category, value := range groups {
			switch v := value.(type) {
			case []any:
				s.Categories[category] = stringItems(v)
			case string:
				s.Categories[category] = splitSkillString(v)
			}
		}
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("skills string: %w", err)
		}
		s.Flat = splitSkillString(text)
	default:
		return fmt.Errorf("skills: unsupported JSON value %q", string(data))
	}
	return nil
}

// stringItems keeps the non-empty string elements of a decoded JSON array
func stringItems(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
			out = append(out, strings.TrimSpace(str))
		}
	}
	return out
}

func splitSkillString(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，' || r == '、'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
