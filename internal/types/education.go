//nolint:revive // types is a standard Go package name pattern
package types

// EducationLevel is the ordinal degree scale used for scoring
type EducationLevel int

// Ordinal values; EducationUnknown also covers "unspecified"
const (
	EducationUnknown EducationLevel = iota
	EducationHighSchool
	EducationAssociate
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

var educationLevelNames = map[EducationLevel]string{
	EducationUnknown:    "unknown",
	EducationHighSchool: "high_school",
	EducationAssociate:  "associate",
	EducationBachelor:   "bachelor",
	EducationMaster:     "master",
	EducationDoctorate:  "doctorate",
}

func (l EducationLevel) String() string {
	if name, ok := educationLevelNames[l]; ok {
		return name
	}
	return "unknown"
}
