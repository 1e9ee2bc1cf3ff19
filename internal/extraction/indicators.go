package extraction

// Indicator scores. Optional fields that are absent get partial credit so that
// missing soft data does not sink the overall confidence.
const (
	scoreFound   = 1.0
	scoreMissing = 0.0
)

// indicator records how sure the rules were about one field
type indicator struct {
	field string
	score float64
}

// scorecard is the ordered list of indicators for one extraction
type scorecard []indicator

func (s *scorecard) add(field string, score float64) {
	*s = append(*s, indicator{field: field, score: clamp01(score)})
}

// confidence is the mean indicator score, 0 for an empty card
func (s scorecard) confidence() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range s {
		sum += ind.score
	}
	return clamp01(sum / float64(len(s)))
}

// found counts indicators with any credit
func (s scorecard) found() int {
	n := 0
	for _, ind := range s {
		if ind.score > 0 {
			n++
		}
	}
	return n
}

// score returns the indicator recorded for field
func (s scorecard) score(field string) (float64, bool) {
	for _, ind := range s {
		if ind.field == field {
			return ind.score, true
		}
	}
	return 0, false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
