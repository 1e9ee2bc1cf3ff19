package extraction

import (
	"sort"
	"strings"
	"unicode"
)

// keywordStopWords filters English filler that makes poor skill keywords
var keywordStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "about": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "good": true,
}

// cjkStopRunes never start or end a useful two-character term
var cjkStopRunes = map[rune]bool{
	'的': true, '了': true, '和': true, '与': true, '及': true, '在': true, '是': true,
	'有': true, '我': true, '对': true, '等': true, '为': true, '并': true, '或': true,
	'也': true, '就': true, '都': true, '而': true, '年': true, '月': true, '能': true,
}

type keywordStat struct {
	term  string
	count int
	first int
}

// topKeywords ranks terms by frequency, earliest first on ties. Latin tokens of
// three or more characters keep tech punctuation (c++, c#, node.js); Han runs are
// split into overlapping two-character terms.
func topKeywords(text string, limit int) []string {
	stats := make(map[string]*keywordStat)
	position := 0
	record := func(term string) {
		position++
		if s, ok := stats[term]; ok {
			s.count++
			return
		}
		stats[term] = &keywordStat{term: term, count: 1, first: position}
	}

	var latin strings.Builder
	var han []rune
	flushLatin := func() {
		word := strings.TrimRight(latin.String(), ".")
		latin.Reset()
		if len([]rune(word)) >= 3 && !keywordStopWords[word] && !isDigits(word) {
			record(word)
		}
	}
	flushHan := func() {
		for i := 0; i+1 < len(han); i++ {
			if cjkStopRunes[han[i]] || cjkStopRunes[han[i+1]] {
				continue
			}
			record(string(han[i : i+2]))
		}
		han = han[:0]
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			flushLatin()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.':
			flushHan()
			latin.WriteRune(r)
		default:
			flushLatin()
			flushHan()
		}
	}
	flushLatin()
	flushHan()

	ranked := make([]*keywordStat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.term
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}
