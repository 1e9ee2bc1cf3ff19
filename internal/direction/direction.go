// Package direction maps free text to coarse occupational categories and
// scores how well a candidate's direction lines up with a job title.
package direction

import (
	"slices"
	"strings"

	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

// Direction scores
const (
	ScoreShared        = 100.0
	ScoreUnrecognized  = 50.0
	ScoreTechDisjoint  = 60.0
	ScoreOtherDisjoint = 40.0
	ScoreUnrelated     = 30.0
	ScoreCrossover     = 10.0
)

// Reasons attached to DirectionDetail
const (
	ReasonResumeUnrecognized = "resume direction not recognized"
	ReasonJobUnrecognized    = "job direction not recognized"
	ReasonCrossover          = "technical and non-technical directions do not match"
	ReasonTechDisjoint       = "both technical but different directions"
	ReasonOtherDisjoint      = "both non-technical but different directions"
	ReasonUnrelated          = "directions do not match"
)

// Classifier assigns direction categories using the taxonomy direction table
type Classifier struct {
	tables *taxonomy.Tables
}

// New creates a classifier; nil tables fall back to taxonomy.Default()
func New(tables *taxonomy.Tables) *Classifier {
	if tables == nil {
		tables = taxonomy.Default()
	}
	return &Classifier{tables: tables}
}

// Classify returns every category whose keyword list has a case-insensitive
// hit in text, in table order. A text may belong to several categories.
func (c *Classifier) Classify(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}
	var out []string
	for _, d := range c.tables.Directions {
		for _, kw := range d.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, d.Name)
				break
			}
		}
	}
	return out
}

// IsTechnical reports whether the named category is a technical one
func (c *Classifier) IsTechnical(category string) bool {
	d, ok := c.tables.Direction(category)
	return ok && d.Technical
}

// Score compares the union of categories found in resumeTexts (current
// position plus intention positions) with the categories of jobTitle.
func (c *Classifier) Score(resumeTexts []string, jobTitle string) (float64, types.DirectionDetail) {
	detail := types.DirectionDetail{
		ResumePosition: firstNonEmpty(resumeTexts),
		JobTitle:       jobTitle,
	}

	var resumeCats []string
	for _, text := range resumeTexts {
		resumeCats = union(resumeCats, c.Classify(text))
	}
	jobCats := c.Classify(jobTitle)
	detail.ResumeCategories = resumeCats
	detail.JobCategories = jobCats

	if len(resumeCats) == 0 {
		return finish(detail, ScoreUnrecognized, ReasonResumeUnrecognized)
	}
	if len(jobCats) == 0 {
		return finish(detail, ScoreUnrecognized, ReasonJobUnrecognized)
	}

	if shared := intersect(resumeCats, jobCats); len(shared) > 0 {
		detail.Match = true
		detail.Matched = shared
		return finish(detail, ScoreShared, "")
	}

	resumeTech, resumeOther := c.kinds(resumeCats)
	jobTech, jobOther := c.kinds(jobCats)

	switch {
	case (resumeTech && jobOther) || (resumeOther && jobTech):
		return finish(detail, ScoreCrossover, ReasonCrossover)
	case resumeTech && jobTech:
		return finish(detail, ScoreTechDisjoint, ReasonTechDisjoint)
	case resumeOther && jobOther:
		return finish(detail, ScoreOtherDisjoint, ReasonOtherDisjoint)
	default:
		return finish(detail, ScoreUnrelated, ReasonUnrelated)
	}
}

// kinds reports whether the categories include technical and non-technical ones.
// Categories unknown to the table count as neither.
func (c *Classifier) kinds(categories []string) (tech, other bool) {
	for _, name := range categories {
		d, ok := c.tables.Direction(name)
		if !ok {
			continue
		}
		if d.Technical {
			tech = true
		} else {
			other = true
		}
	}
	return tech, other
}

func finish(detail types.DirectionDetail, score float64, reason string) (float64, types.DirectionDetail) {
	detail.Score = score
	detail.Reason = reason
	return score, detail
}

func firstNonEmpty(texts []string) string {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

func union(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func intersect(a, b []string) []string {
	var out []string
	for _, s := range a {
		if slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}
