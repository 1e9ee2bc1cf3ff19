package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// firstSubmatch returns the trimmed first capture group of the first pattern that matches
func firstSubmatch(text string, patterns ...*regexp.Regexp) (string, bool) {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if value := strings.TrimSpace(m[1]); value != "" {
				return value, true
			}
		}
	}
	return "", false
}

// firstTableHit returns the first table entry contained in text, in table order
func firstTableHit(text string, table []string) (string, bool) {
	for _, entry := range table {
		if entry != "" && strings.Contains(text, entry) {
			return entry, true
		}
	}
	return "", false
}

// termIndexes finds every occurrence of a lowercased term in lowered text.
// ASCII terms only match on ASCII-letter boundaries, so "go"
// is not found inside "django" and "java" is not found inside "javascript".
func termIndexes(lowered, term string) []int {
	if term == "" {
		return nil
	}
	var out []int
	checkBounds := isASCII(term)
	for offset := 0; offset < len(lowered); {
		i := strings.Index(lowered[offset:], term)
		if i < 0 {
			break
		}
		at := offset + i
		end := at + len(term)
		if !checkBounds || (!letterBefore(lowered, at) && !letterAt(lowered, end)) {
			out = append(out, at)
		}
		offset = at + 1
	}
	return out
}

// containsTerm reports whether term occurs in lowered text at a valid boundary
func containsTerm(lowered, term string) bool {
	return len(termIndexes(lowered, strings.ToLower(term))) > 0
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func letterBefore(s string, i int) bool {
	return i > 0 && isASCIILetter(s[i-1])
}

func letterAt(s string, i int) bool {
	return i < len(s) && isASCIILetter(s[i])
}

// lineAround returns the line containing byte offset i, and the part of it before i
func lineAround(s string, i int) (line, before string) {
	start := strings.LastIndexByte(s[:i], '\n') + 1
	end := strings.IndexByte(s[i:], '\n')
	if end < 0 {
		end = len(s)
	} else {
		end += i
	}
	return s[start:end], s[start:i]
}

// lastRunes returns at most n trailing runes of s
func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// truncateRunes returns at most n leading runes of s
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// appendUnique appends value unless an equal (case-insensitive) entry exists
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}
