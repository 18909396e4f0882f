package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coachkit/rulekeeper/internal/types"
)

// Report classifies candidate against every active rule with a different id
// and returns the related ones, Critical first, then Specific, then Info.
// Inputs are not mutated.
func Report(candidate *CompiledRule, active []*CompiledRule) []types.ConflictEntry {
	var entries []types.ConflictEntry

	for _, other := range active {
		if !other.IsActive {
			continue
		}
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}

		c := Classify(candidate, other)
		if !c.Related() {
			continue
		}

		entries = append(entries, types.ConflictEntry{
			OtherRuleID:   other.ID,
			OtherRuleName: other.Name,
			Kind:          c.Kind,
			Reasons:       reasons(candidate, other, c),
		})
	}

	// Stable: within a kind, entries keep the order of the active rule list
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Kind < entries[j].Kind
	})
	return entries
}

// Blocking reports whether the entries contain a Critical conflict.
func Blocking(entries []types.ConflictEntry) bool {
	for _, e := range entries {
		if e.Kind == types.ConflictCritical {
			return true
		}
	}
	return false
}

// reasons builds the human-readable justification for a classification.
// The scope fact always comes first.
func reasons(candidate, other *CompiledRule, c Classification) []string {
	out := []string{
		scopeReason(candidate, other),
		demographicsReason(candidate.Criteria, other.Criteria),
	}

	cc, oc := candidate.Criteria, other.Criteria
	otherLabel := ruleLabel(other)

	switch c.Kind {
	case types.ConflictCritical:
		out = append(out,
			fmt.Sprintf("identical criteria: goals %s, activity levels %s, injuries %s",
				formatSet(cc.FitnessGoals), formatSet(cc.ActivityLevels), formatSet(cc.Injuries)),
			fmt.Sprintf("both rules always fire together with %s; merge or delete one", otherLabel),
		)

	case types.ConflictSpecific:
		winner, loser := "this rule", otherLabel
		wc, lc := cc, oc
		ws, ls := c.CandidateScore, c.OtherScore
		if c.OtherMoreSpecific {
			winner, loser = otherLabel, "this rule"
			wc, lc = oc, cc
			ws, ls = c.OtherScore, c.CandidateScore
		}
		out = append(out,
			fmt.Sprintf("%s is more specific (score %d vs %d)", winner, ws, ls),
			fmt.Sprintf("%s narrows %s by %s", winner, loser, narrowingFields(wc, lc)),
			fmt.Sprintf("%s overrides %s on shared adjustment fields", winner, loser),
		)

	case types.ConflictInfo:
		if c.Ambiguous {
			out = append(out, fmt.Sprintf(
				"ambiguous precedence: criteria sets are nested but scores (%d vs %d) disagree; no rule wins",
				c.CandidateScore, c.OtherScore))
		} else {
			out = append(out, "criteria overlap partially: neither rule's goals, activity levels and injuries contain the other's")
		}
		out = append(out, fmt.Sprintf("adjustments of this rule and %s add up for clients matching both", otherLabel))
	}

	return out
}

func scopeReason(candidate, other *CompiledRule) string {
	category := candidate.Category
	switch {
	case candidate.Scope.IsGlobal() && other.Scope.IsGlobal():
		return fmt.Sprintf("scope: both rules apply to every %s product", category)
	case candidate.Scope.IsGlobal():
		return fmt.Sprintf("scope: this rule applies to every %s product, including %s", category, formatSet(other.Scope.Products))
	case other.Scope.IsGlobal():
		return fmt.Sprintf("scope: %s applies to every %s product, including %s", ruleLabel(other), category, formatSet(candidate.Scope.Products))
	default:
		return fmt.Sprintf("scope: shared products %s", formatSet(sharedProducts(candidate.Scope, other.Scope)))
	}
}

func demographicsReason(a, b types.Criteria) string {
	return fmt.Sprintf("demographics overlap: gender %s/%s, age %d-%d/%d-%d, weight %d-%d/%d-%d kg",
		a.EffectiveGender(), b.EffectiveGender(),
		a.Age().Min, a.Age().Max, b.Age().Min, b.Age().Max,
		a.Weight().Min, a.Weight().Max, b.Weight().Min, b.Weight().Max)
}

// narrowingFields names the set-valued criteria where the winner adds elements.
func narrowingFields(winner, loser types.Criteria) string {
	var parts []string
	if extra := difference(winner.FitnessGoals, loser.FitnessGoals); len(extra) > 0 {
		parts = append(parts, "goals "+formatSet(extra))
	}
	if extra := difference(winner.ActivityLevels, loser.ActivityLevels); len(extra) > 0 {
		parts = append(parts, "activity levels "+formatSet(extra))
	}
	if extra := difference(winner.Injuries, loser.Injuries); len(extra) > 0 {
		parts = append(parts, "injuries "+formatSet(extra))
	}
	return strings.Join(parts, ", ")
}

func ruleLabel(r *CompiledRule) string {
	if r.Name != "" {
		return fmt.Sprintf("%q", r.Name)
	}
	return string(r.ID)
}

func formatSet[T ~string](set []T) string {
	if len(set) == 0 {
		return "[any]"
	}
	parts := make([]string, len(set))
	for i, v := range set {
		parts[i] = string(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
