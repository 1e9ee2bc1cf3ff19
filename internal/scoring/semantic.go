package scoring

import (
	"math"

	"github.com/jonathan/job-matcher/internal/types"
)

// NeutralSemanticScore is used when either vector is missing
const NeutralSemanticScore = 50.0

// Cosine returns the cosine similarity of two vectors, or 0 when either has
// zero magnitude or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ScoreSemantic turns vector similarity into a 0-100 score. Missing, empty or
// mismatched vectors yield the neutral score flagged as not available.
func ScoreSemantic(resumeVec, jobVec []float32) (float64, types.SemanticDetail) {
	if len(resumeVec) == 0 || len(jobVec) == 0 || len(resumeVec) != len(jobVec) {
		return NeutralSemanticScore, types.SemanticDetail{
			Score:  NeutralSemanticScore,
			Method: types.SemanticNotAvailable,
		}
	}
	score := min(100, max(0, Cosine(resumeVec, jobVec)*100))
	return score, types.SemanticDetail{Score: score, Method: types.SemanticEmbedding}
}
