// Package ingestion turns resume and job files into clean text ready for
// extraction.
package ingestion

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	inlineSpace     = regexp.MustCompile(`[ \t\x{00A0}]+`)
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes text pulled from a resume or job posting. Full-width
// letters, digits and punctuation are folded to ASCII so the extraction rules
// see one form. Inline whitespace collapses and runs of blank lines shrink to
// one. List markers are kept since extraction keys on them.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = width.Fold.String(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u200b", "")
	content = strings.ReplaceAll(content, "\ufeff", "")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = extraBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	return strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
}
