//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.Len(t, w, len(ReportingDimensions))
	assert.Equal(t, 1.0, w.Sum())
	assert.True(t, w.IsNormalized())
	for _, d := range ReportingDimensions {
		assert.Contains(t, w, d)
	}
}

func TestWeights_Normalize(t *testing.T) {
	w := Weights{DimensionSkills: 2, DimensionExperience: 1, DimensionSalary: 1}
	n := w.Normalize()

	assert.InDelta(t, 0.5, n[DimensionSkills], 1e-12)
	assert.InDelta(t, 0.25, n[DimensionExperience], 1e-12)
	assert.True(t, n.IsNormalized())
	assert.Equal(t, 2.0, w[DimensionSkills], "Normalize must not mutate the receiver")
}

func TestWeights_NormalizeZeroSum(t *testing.T) {
	w := Weights{DimensionSkills: 0}
	assert.Equal(t, w, w.Normalize())
}

func TestWeights_Apply(t *testing.T) {
	w := Weights{DimensionSkills: 0.5, DimensionExperience: 0.5}
	total := w.Apply(map[Dimension]float64{DimensionSkills: 80, DimensionExperience: 60, DimensionSalary: 100})
	assert.InDelta(t, 70.0, total, 1e-9)
}

func TestWeights_KeysFollowDimensionOrder(t *testing.T) {
	keys := DefaultWeights().Keys()
	assert.Equal(t, []Dimension{
		DimensionSkills, DimensionExperience, DimensionSalary, DimensionLocation,
		DimensionCulture, DimensionGrowth, DimensionStability,
	}, keys)

	w := Weights{"zeta": 1, DimensionSemantic: 1, "alpha": 1, DimensionPosition: 1}
	assert.Equal(t, []Dimension{DimensionPosition, DimensionSemantic, "alpha", "zeta"}, w.Keys())
}

func TestWeights_SumIsExactForDecimalShares(t *testing.T) {
	fast := Weights{
		DimensionPosition:   0.30,
		DimensionSkills:     0.25,
		DimensionExperience: 0.20,
		DimensionEducation:  0.15,
		DimensionSemantic:   0.10,
	}
	assert.Equal(t, 1.0, fast.Sum())
	assert.Equal(t, 1.0, DefaultWeights().Sum())
}

func TestWeights_NormalizeSumsToExactlyOne(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
	}{
		{"boosted and damped defaults", Weights{
			DimensionSkills: 0.25 * 1.2, DimensionExperience: 0.20, DimensionSalary: 0.15 * 0.8,
			DimensionLocation: 0.10, DimensionCulture: 0.10, DimensionGrowth: 0.10, DimensionStability: 0.10,
		}},
		{"thirds", Weights{DimensionSkills: 1, DimensionExperience: 1, DimensionSalary: 1}},
		{"sevenths", Weights{
			DimensionSkills: 1, DimensionExperience: 1, DimensionSalary: 1, DimensionLocation: 1,
			DimensionCulture: 1, DimensionGrowth: 1, DimensionStability: 1,
		}},
		{"uneven", Weights{DimensionPosition: 0.37, DimensionSkills: 0.11, DimensionSemantic: 0.0731}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1.0, tt.weights.Normalize().Sum())
		})
	}
}

func TestEducationLevel_String(t *testing.T) {
	assert.Equal(t, "bachelor", EducationBachelor.String())
	assert.Equal(t, "unknown", EducationLevel(42).String())
	assert.Less(t, EducationAssociate, EducationBachelor)
	assert.Equal(t, EducationLevel(5), EducationDoctorate)
}
