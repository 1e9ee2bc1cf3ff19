// Package prompts holds the model prompts for document extraction, precise
// matching and the career advisor. Each embedded JSON file maps prompt keys to templates
// with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"sync"
)

const (
	ExtractionFile = "extraction.json"
	MatchingFile   = "matching.json"
	AdvisorFile    = "advisor.json"

	KeyExtractResume = "extract-resume"
	KeyExtractJob    = "extract-job"
	KeyPreciseMatch  = "precise-match"
	KeyAnalyzeResume = "analyze-resume"
	KeyPlanSearch    = "plan-search"
)

//go:embed *.json
var embedded embed.FS

// catalog parses every embedded file once
var catalog = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(embedded, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := embedded.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var templates map[string]string
		if err := json.Unmarshal(raw, &templates); err != nil {
			return nil, fmt.Errorf("prompt file %s: %w", name, err)
		}
		out[name] = templates
	}
	return out, nil
})

func file(name string) (map[string]string, error) {
	all, err := catalog()
	if err != nil {
		return nil, err
	}
	templates, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("no prompt file %s", name)
	}
	return templates, nil
}

// Get returns the raw template stored under key in file
func Get(filename, key string) (string, error) {
	templates, err := file(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// Render is Get followed by Format
func Render(filename, key string, data map[string]string) (string, error) {
	tmpl, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(tmpl, data), nil
}

// Format substitutes {{.Key}} placeholders in one pass, so a value that
// itself looks like a placeholder is inserted literally.
func Format(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	oldnew := make([]string, 0, 2*len(data))
	for _, k := range sortedKeys(data) {
		oldnew = append(oldnew, "{{."+k+"}}", data[k])
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}

// Keys lists the prompts defined in a file
func Keys(filename string) ([]string, error) {
	templates, err := file(filename)
	if err != nil {
		return nil, err
	}
	return sortedKeys(templates), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return slices.Clip(keys)
}
