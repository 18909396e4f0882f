package rules

import "github.com/coachkit/rulekeeper/internal/types"

// DemographicsOverlap reports whether a single client could satisfy both
// criteria's gender filter, age range and weight range at once.
//
// Set-valued criteria (levels, goals, injuries) are deliberately ignored: an
// empty set there means "no restriction", so set overlap has different
// semantics and is handled by the classifier.
func DemographicsOverlap(a, b types.Criteria) bool {
	return gendersOverlap(a.EffectiveGender(), b.EffectiveGender()) &&
		a.Age().Overlaps(b.Age()) &&
		a.Weight().Overlaps(b.Weight())
}

// gendersOverlap treats GenderAll as a wildcard.
func gendersOverlap(a, b types.Gender) bool {
	if a == types.GenderAll || b == types.GenderAll {
		return true
	}
	return a == b
}
