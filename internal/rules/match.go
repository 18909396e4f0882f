package rules

import "github.com/coachkit/rulekeeper/internal/types"

// Matches reports whether a client profile satisfies a rule's criteria.
//
// Empty sets and default ranges impose no restriction. A profile without a
// gender only satisfies criteria whose gender is "all"; a profile without an
// activity level only satisfies criteria that list no levels.
func Matches(criteria types.Criteria, profile types.ClientProfile) bool {
	return matches(criteria.Normalize(), normalizeProfile(profile))
}

// matches expects both inputs normalized.
func matches(c types.Criteria, p types.ClientProfile) bool {
	if g := c.EffectiveGender(); g != types.GenderAll && g != p.Gender {
		return false
	}
	if !c.Age().Contains(float64(p.Age)) {
		return false
	}
	if !c.Weight().Contains(p.WeightKg) {
		return false
	}
	if len(c.ActivityLevels) > 0 && !containsValue(c.ActivityLevels, p.ActivityLevel) {
		return false
	}
	if len(c.FitnessGoals) > 0 && !intersects(c.FitnessGoals, p.Goals) {
		return false
	}
	if len(c.Injuries) > 0 && !intersects(c.Injuries, p.Injuries) {
		return false
	}
	return true
}

func normalizeProfile(p types.ClientProfile) types.ClientProfile {
	p.Goals = types.NormalizeTags(p.Goals)
	p.Injuries = types.NormalizeTags(p.Injuries)
	return p
}
