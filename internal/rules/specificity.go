// internal/rules/specificity.go
package rules

import "github.com/coachkit/rulekeeper/internal/types"

/*
 * Specificity model for rule precedence.
 *
 * Assigns a criteria value a "narrowness" score. The classifier uses the
 * score, together with set containment, to decide which of two overlapping
 * rules takes precedence for a client matching both.
 *
 * Score formula:
 *   +1 gender restricted, +1 age narrower than default, +1 weight narrower
 *   than default, +2 per goal, +2 per activity level, +5 per injury.
 *
 * Injuries dominate: applying an injury-aware adjustment to the wrong
 * population is the costliest failure mode, so a single injury outweighs
 * two goals.
 *
 * This is a heuristic, not a measurement. The constants below are the
 * single source of truth and SpecificityTableVersion must be bumped on any
 * change: different weights change which rule wins.
 *
 * Monotonic by construction: every term is a non-negative count times a
 * positive weight, so adding a restriction never lowers the score and an
 * unrestricted criteria scores 0.
 */

// SpecificityTableVersion identifies the weight table below.
const SpecificityTableVersion = "v1"

// Canonical specificity weights.
const (
	WeightGender      = 1
	WeightAgeRange    = 1
	WeightWeightRange = 1
	WeightPerGoal     = 2
	WeightPerLevel    = 2
	WeightPerInjury   = 5
)

// Specificity scores how narrowly c targets a population.
func Specificity(c types.Criteria) int {
	c = c.Normalize()

	score := 0
	if c.EffectiveGender() != types.GenderAll {
		score += WeightGender
	}
	if c.Age().NarrowerThan(types.DefaultAgeRange()) {
		score += WeightAgeRange
	}
	if c.Weight().NarrowerThan(types.DefaultWeightRange()) {
		score += WeightWeightRange
	}
	score += WeightPerGoal * len(c.FitnessGoals)
	score += WeightPerLevel * len(c.ActivityLevels)
	score += WeightPerInjury * len(c.Injuries)

	return score
}
