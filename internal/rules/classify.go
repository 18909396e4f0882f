// internal/rules/classify.go
package rules

import "github.com/coachkit/rulekeeper/internal/types"

/*
 * Pairwise relationship classification.
 *
 * Classifies how a candidate rule relates to one other rule of the same
 * coach. Both rules must come out of Compile (sets sorted and deduped).
 *
 * Classification flow:
 *   1. Scopes must overlap (same category, global or shared product)
 *   2. Demographics must overlap (gender, age, weight)
 *   3. Identical goal/level/injury sets -> Critical: both rules always fire
 *      together for the same population with no precedence between them
 *   4. One side strictly more specific by score AND its sets contain every
 *      element of the other's -> Specific: that side wins per field
 *   5. Anything else -> Info: partial overlap, adjustments add up
 *
 * Ambiguous precedence: when containment points at one rule but the score
 * does not (the other rule outscores it through narrower demographics), no
 * winner is picked. The pair is Info and flagged Ambiguous so the report can
 * say so. A guessed winner would silently change a client's training load.
 */

// Classification is the outcome of comparing a candidate with another rule.
type Classification struct {
	Kind                  types.ConflictKind
	CandidateScore        int
	OtherScore            int
	CandidateMoreSpecific bool
	OtherMoreSpecific     bool
	Ambiguous             bool
}

// Related reports whether the rules can ever apply to the same client and product.
func (c Classification) Related() bool {
	return c.Kind != types.ConflictNone
}

// Classify compares candidate against other.
// Callers skip pairs with equal ids; other is expected to be active.
func Classify(candidate, other *CompiledRule) Classification {
	if !ScopesOverlap(candidate.Rule, other.Rule) {
		return Classification{Kind: types.ConflictNone}
	}
	if !DemographicsOverlap(candidate.Criteria, other.Criteria) {
		return Classification{Kind: types.ConflictNone}
	}

	result := Classification{
		CandidateScore: candidate.Specificity,
		OtherScore:     other.Specificity,
	}

	if sameCriteriaSets(candidate.Criteria, other.Criteria) {
		result.Kind = types.ConflictCritical
		return result
	}

	candidateContains := containsCriteriaSets(candidate.Criteria, other.Criteria)
	otherContains := containsCriteriaSets(other.Criteria, candidate.Criteria)

	result.CandidateMoreSpecific = candidateContains && result.CandidateScore > result.OtherScore
	result.OtherMoreSpecific = otherContains && result.OtherScore > result.CandidateScore

	if result.CandidateMoreSpecific || result.OtherMoreSpecific {
		result.Kind = types.ConflictSpecific
		return result
	}

	result.Kind = types.ConflictInfo
	result.Ambiguous = candidateContains || otherContains
	return result
}

// Dominates reports whether x takes precedence over y for clients matching both.
func Dominates(x, y *CompiledRule) bool {
	c := Classify(x, y)
	return c.Kind == types.ConflictSpecific && c.CandidateMoreSpecific
}

// sameCriteriaSets compares goals, activity levels and injuries.
func sameCriteriaSets(a, b types.Criteria) bool {
	return sameSet(a.FitnessGoals, b.FitnessGoals) &&
		sameSet(a.ActivityLevels, b.ActivityLevels) &&
		sameSet(a.Injuries, b.Injuries)
}

// containsCriteriaSets reports whether every set of inner is a subset of outer's.
// The containing side is the least permissive one.
func containsCriteriaSets(outer, inner types.Criteria) bool {
	return subsetOf(inner.FitnessGoals, outer.FitnessGoals) &&
		subsetOf(inner.ActivityLevels, outer.ActivityLevels) &&
		subsetOf(inner.Injuries, outer.Injuries)
}
