// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// boxWidth is the display width of formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// displayWidth counts wide and full-width runes as two columns
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// truncate cuts s to at most limit display columns, marking the cut with "..."
func truncate(s string, limit int) string {
	if displayWidth(s) <= limit {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := displayWidth(string(r))
		if used+w > limit-3 {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String() + "..."
}

func pad(s string, cols int) string {
	if gap := cols - displayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintResume outputs a summary of an extracted resume
func (p *Printer) PrintResume(ex types.ResumeExtraction) {
	r := ex.Fields
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", orDash(r.Name)))
	sb.WriteString(fmt.Sprintf("Position:   %s\n", orDash(r.CurrentPosition)))
	if r.YearsExperience != nil {
		sb.WriteString(fmt.Sprintf("Experience: %d years\n", *r.YearsExperience))
	}
	sb.WriteString(fmt.Sprintf("Education:  %s %s\n", orDash(r.Education), r.University))
	sb.WriteString(fmt.Sprintf("Method:     %s (confidence %.2f)\n\n", ex.Method, ex.Confidence))
	writeList(&sb, "Skills", r.Skills.Flatten(), 8)

	p.printBox("EXTRACTED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs a summary of an extracted job posting
func (p *Printer) PrintJob(ex types.JobExtraction) {
	j := ex.Fields
	if j == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:      %s\n", orDash(j.Title)))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", orDash(j.Company)))
	sb.WriteString(fmt.Sprintf("Salary:     %s\n", orDash(j.SalaryRange)))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", orDash(j.ExperienceRequired)))
	sb.WriteString(fmt.Sprintf("Education:  %s\n", orDash(j.EducationRequired)))
	sb.WriteString(fmt.Sprintf("Method:     %s (confidence %.2f)\n\n", ex.Method, ex.Confidence))
	writeList(&sb, "Required", j.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred", j.PreferredSkills, 3)

	p.printBox("EXTRACTED JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs the total and per-dimension scores of a fast match
func (p *Printer) PrintMatch(score *types.MatchScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %.2f\n\n", score.TotalScore))

	dims := score.Weights.Keys()
	for _, d := range dims {
		sb.WriteString(fmt.Sprintf("  %-11s %6.2f  (weight %.2f)\n", d, score.DimensionScores[d], score.Weights[d]))
	}
	if score.Reason != "" {
		sb.WriteString("\n" + score.Reason + "\n")
	}
	if s := score.Details.Skills; s != nil && len(s.MissingRequired) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Missing skills", s.MissingRequired, maxItemsToShow)
	}

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrecise outputs a precise match verdict
func (p *Printer) PrintPrecise(result *types.PreciseResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.2f\n", result.Score))
	if result.Detail.Recommendation != "" {
		sb.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Detail.Recommendation))
	}
	for _, d := range sortedDimensions(result.Detail.Dimensions) {
		sb.WriteString(fmt.Sprintf("  %-11s %6.2f\n", d, result.Detail.Dimensions[d]))
	}
	sb.WriteString("\n" + result.Analysis + "\n\n")
	writeList(&sb, "Strengths", result.Detail.Strengths, maxItemsToShow)
	writeList(&sb, "Weaknesses", result.Detail.Weaknesses, maxItemsToShow)

	p.printBox("PRECISE MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanked outputs ranked batch matches, best first
func (p *Printer) PrintRanked(matches []matching.RankedMatch, excluded int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ranked %d jobs", len(matches)))
	if excluded > 0 {
		sb.WriteString(fmt.Sprintf(" (%d excluded)", excluded))
	}
	sb.WriteString("\n\n")

	for i, m := range matches {
		title := m.JobID
		if m.Job != nil && m.Job.Title != "" {
			title = m.Job.Title
			if m.Job.Company != "" {
				title += " @ " + m.Job.Company
			}
		}
		sb.WriteString(fmt.Sprintf("#%-3d %6.2f  %s\n", i+1, m.Score, title))
	}

	p.printBox("BATCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWeights outputs a feedback analysis
func (p *Printer) PrintWeights(a feedback.Analysis) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Feedback: %d total, %d positive, %d negative\n\n",
		a.Summary.Total, a.Summary.Positive, a.Summary.Negative))

	for _, d := range a.Weights.Keys() {
		line := fmt.Sprintf("  %-11s %.3f", d, a.Weights[d])
		if st, ok := a.Preferred[d]; ok {
			line += fmt.Sprintf("  avg %.1f (n=%d)", st.Average, st.Samples)
		}
		sb.WriteString(line + "\n")
	}

	p.printBox("OPTIMIZED WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a resume review
func (p *Printer) PrintAnalysis(a *advisor.ResumeAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:      %s\n", orDash(a.Level)))
	if a.YearsExperience != nil {
		sb.WriteString(fmt.Sprintf("Experience: %d years\n", *a.YearsExperience))
	}
	if a.CareerDirection != "" {
		sb.WriteString(fmt.Sprintf("Direction:  %s\n", a.CareerDirection))
	}
	if a.SalaryMin != nil && a.SalaryMax != nil {
		sb.WriteString(fmt.Sprintf("Salary:     %d-%dk\n", *a.SalaryMin, *a.SalaryMax))
	}
	if a.Fallback {
		sb.WriteString("Source:     rules\n")
	}
	sb.WriteString("\n")

	skills := make([]string, len(a.CoreSkills))
	for i, s := range a.CoreSkills {
		skills[i] = s.Name
		if s.Proficiency != "" {
			skills[i] += " (" + s.Proficiency + ")"
		}
	}
	writeList(&sb, "Core skills", skills, 8)
	writeList(&sb, "Strengths", a.Strengths, maxItemsToShow)
	writeList(&sb, "Weaknesses", a.Weaknesses, maxItemsToShow)
	writeList(&sb, "Positions", a.RecommendedPositions, maxItemsToShow)

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs a search plan, paths in priority order
func (p *Printer) PrintPlan(plan *advisor.SearchPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Radius: %s\n", orDash(plan.Radius)))
	if plan.Rationale != "" {
		sb.WriteString(plan.Rationale + "\n")
	}
	sb.WriteString("\n")
	for _, path := range plan.Paths {
		sb.WriteString(fmt.Sprintf("%d. %s\n", path.Priority, orDash(path.Name)))
		if len(path.JobTitles) > 0 {
			sb.WriteString("   " + strings.Join(path.JobTitles, ", ") + "\n")
		}
		if len(path.Locations) > 0 {
			sb.WriteString("   @ " + strings.Join(path.Locations, ", ") + "\n")
		}
	}
	sb.WriteString("\n")
	for _, d := range plan.Weights.Keys() {
		sb.WriteString(fmt.Sprintf("  %-11s %.3f\n", d, plan.Weights[d]))
	}

	p.printBox("SEARCH PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStrategies outputs ranked search strategies, best first
func (p *Printer) PrintStrategies(ranked []feedback.RankedStrategy) {
	var sb strings.Builder
	if len(ranked) == 0 {
		sb.WriteString("No rated searches yet\n")
	}
	for i, r := range ranked {
		sb.WriteString(fmt.Sprintf("#%-3d %6.2f  %s  (engaged %.0f%%, converted %.0f%%)\n",
			i+1, r.Quality.Score, r.Strategy, r.Quality.EngagementRate*100, r.Quality.ConversionRate*100))
	}

	p.printBox("TOP STRATEGIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuality outputs how one search was received
func (p *Printer) PrintQuality(r *pipeline.QualityResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search:     %s\n", r.SearchID))
	sb.WriteString(fmt.Sprintf("Strategy:   %s\n", orDash(r.Strategy)))
	sb.WriteString(fmt.Sprintf("Returned:   %d jobs, %d interactions\n\n", r.JobsReturned, r.Interactions))
	sb.WriteString(fmt.Sprintf("Quality:    %.2f\n", r.Quality.Score))
	sb.WriteString(fmt.Sprintf("Engagement: %.0f%%\n", r.Quality.EngagementRate*100))
	sb.WriteString(fmt.Sprintf("Conversion: %.0f%%\n", r.Quality.ConversionRate*100))
	sb.WriteString(fmt.Sprintf("Rating:     %.1f\n", r.Quality.AverageRating))

	p.printBox("SEARCH QUALITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs the stored matches of a resume
func (p *Printer) PrintHistory(matches []db.MatchRecord) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d stored matches\n\n", len(matches)))
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("%6.2f  %-7s %s\n", m.Score, m.Mode, m.JobID))
	}

	p.printBox("MATCH HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs one batch progress line
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(e pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "» [%s] %s\n", e.Stage, e.Message)
}

// sortedDimensions orders a score map for display
func sortedDimensions(m map[types.Dimension]float64) []types.Dimension {
	dims := make([]types.Dimension, 0, len(m))
	for d := range m {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}
