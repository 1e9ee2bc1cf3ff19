//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"slices"
)

// WeightTolerance is the allowed drift of a weight vector sum from 1
const WeightTolerance = 1e-9

// ReportingDimensions lists the seven dimensions of the configurable weight vector
var ReportingDimensions = []Dimension{
	DimensionSkills,
	DimensionExperience,
	DimensionSalary,
	DimensionLocation,
	DimensionCulture,
	DimensionGrowth,
	DimensionStability,
}

// DimensionOrder is the fixed iteration order of weight vectors: the fast
// dimensions first, then the remaining reporting dimensions
var DimensionOrder = []Dimension{
	DimensionPosition,
	DimensionSkills,
	DimensionExperience,
	DimensionEducation,
	DimensionSemantic,
	DimensionSalary,
	DimensionLocation,
	DimensionCulture,
	DimensionGrowth,
	DimensionStability,
}

// normalizeRounds bounds the residual corrections applied by Normalize
const normalizeRounds = 4

// Weights maps a dimension to its share of the total score
type Weights map[Dimension]float64

// DefaultWeights returns the default seven-dimension weight vector
func DefaultWeights() Weights {
	return Weights{
		DimensionSkills:     0.25,
		DimensionExperience: 0.20,
		DimensionSalary:     0.15,
		DimensionLocation:   0.10,
		DimensionCulture:    0.10,
		DimensionGrowth:     0.10,
		DimensionStability:  0.10,
	}
}

// Keys returns the dimensions in DimensionOrder; dimensions outside it
// follow in sorted order
func (w Weights) Keys() []Dimension {
	keys := make([]Dimension, 0, len(w))
	for _, d := range DimensionOrder {
		if _, ok := w[d]; ok {
			keys = append(keys, d)
		}
	}
	extra := len(keys)
	for d := range w {
		if !slices.Contains(DimensionOrder, d) {
			keys = append(keys, d)
		}
	}
	slices.Sort(keys[extra:])
	return keys
}

// Sum adds the weights in key order with compensated summation, so that
// vectors written as decimal shares (0.25, 0.20, ...) add up to exactly 1
func (w Weights) Sum() float64 {
	var acc kahan
	for _, d := range w.Keys() {
		acc.add(w[d])
	}
	return acc.total()
}

// IsNormalized reports whether the weights sum to 1 within WeightTolerance
func (w Weights) IsNormalized() bool {
	return math.Abs(w.Sum()-1) <= WeightTolerance
}

// Normalize returns a copy scaled so that the weights sum to 1.
// A vector with a non-positive sum is returned as an unchanged copy.
func (w Weights) Normalize() Weights {
	out := w.Clone()
	total := w.Sum()
	if total <= 0 {
		return out
	}
	keys := out.Keys()
	for _, d := range keys {
		out[d] /= total
	}
	// Division leaves rounding residue; fold it into the largest share.
	largest := keys[0]
	for _, d := range keys {
		if out[d] > out[largest] {
			largest = d
		}
	}
	for range normalizeRounds {
		residual := 1 - out.Sum()
		if residual == 0 {
			break
		}
		out[largest] += residual
	}
	return out
}

// Clone returns an independent copy
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for d, v := range w {
		out[d] = v
	}
	return out
}

// Apply computes Σ weight·score in key order; missing scores count as 0
func (w Weights) Apply(scores map[Dimension]float64) float64 {
	var acc kahan
	for _, d := range w.Keys() {
		acc.add(w[d] * scores[d])
	}
	return acc.total()
}

// kahan is a Neumaier compensated accumulator
type kahan struct {
	sum, comp float64
}

func (k *kahan) add(v float64) {
	t := k.sum + v
	if math.Abs(k.sum) >= math.Abs(v) {
		k.comp += (k.sum - t) + v
	} else {
		k.comp += (v - t) + k.sum
	}
	k.sum = t
}

func (k *kahan) total() float64 {
	return k.sum + k.comp
}
