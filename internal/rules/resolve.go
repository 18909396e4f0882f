// internal/rules/resolve.go
package rules

import (
	"sort"

	"github.com/coachkit/rulekeeper/internal/types"
)

/*
 * Adjustment resolution for a concrete client.
 *
 * Combines the adjustments of every active rule that matches a client for a
 * product into one set of percentage deltas.
 *
 * Resolution flow:
 *   1. Filter: same category, active, scope includes product, criteria match
 *   2. Classify each matching pair once: Specific pairs record the winner as
 *      a dominator of the loser, Critical pairs are recorded as contradictions
 *   3. Suppress per field: a rule's field f is dropped iff one of its
 *      dominators defines f (nonzero)
 *   4. Sum surviving deltas per field and clamp to [MinAdjustment, MaxAdjustment]
 *
 * Dominance is field-scoped so a general rule still contributes the fields a
 * more specific rule leaves alone: X{weight:-10} over Y{weight:-5, reps:+10}
 * yields weight -10, reps +10.
 *
 * Contradictions (identical criteria) have no precedence and still sum. They
 * are surfaced so callers can log them; authoring blocks them from being
 * saved, so they only appear with rules written outside the service.
 *
 * Per-item totals re-sum the post-suppression contributions of the rules whose
 * affected items cover the item.
 *
 * A rule restricted to an empty item list reaches no item. It is still
 * listed as a contribution but never dominates and never enters Totals.
 */

// Contribution is one matching rule's share of a resolution.
type Contribution struct {
	RuleID        types.RuleID
	RuleName      string
	AffectedItems types.AffectedItems
	// Applied holds the deltas that survived suppression.
	Applied types.Adjustments
	// Suppressed maps each dropped field to the dominator that defines it.
	Suppressed map[types.Field]types.RuleID
}

// Resolution is the combined adjustment for one client, product and category.
type Resolution struct {
	ProductID      types.ProductID
	Category       types.Category
	Totals         types.Adjustments
	Contributions  []Contribution
	Contradictions [][2]types.RuleID
}

// Matched reports whether at least one rule applied.
func (r *Resolution) Matched() bool {
	return len(r.Contributions) > 0
}

// ForItem returns the totals an individual exercise or meal receives.
func (r *Resolution) ForItem(item types.ItemID) types.Adjustments {
	totals := types.ZeroAdjustments(r.Category)
	for _, c := range r.Contributions {
		if !c.AffectedItems.Covers(item) {
			continue
		}
		for f, v := range c.Applied {
			totals[f] += v
		}
	}
	clampAll(totals)
	return totals
}

// Resolve computes the adjustments a client receives for a product.
// rules may contain inactive or foreign-category rules; they are ignored.
func Resolve(product types.ProductID, category types.Category, profile types.ClientProfile, rules []*CompiledRule) *Resolution {
	res := &Resolution{
		ProductID: product,
		Category:  category,
		Totals:    types.ZeroAdjustments(category),
	}

	p := normalizeProfile(profile)
	var candidates []*CompiledRule
	for _, r := range rules {
		if !r.IsActive || r.Category != category {
			continue
		}
		if !r.Scope.Includes(product) {
			continue
		}
		if !matches(r.Criteria, p) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return res
	}

	dominators := make([][]int, len(candidates))
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			c := Classify(candidates[i], candidates[j])
			switch {
			case c.Kind == types.ConflictCritical:
				res.Contradictions = append(res.Contradictions, [2]types.RuleID{candidates[i].ID, candidates[j].ID})
			case c.Kind == types.ConflictSpecific && c.CandidateMoreSpecific && !candidates[i].AffectedItems.Inert():
				dominators[j] = append(dominators[j], i)
			case c.Kind == types.ConflictSpecific && c.OtherMoreSpecific && !candidates[j].AffectedItems.Inert():
				dominators[i] = append(dominators[i], j)
			}
		}
	}

	for i, r := range candidates {
		inert := r.AffectedItems.Inert()
		contrib := Contribution{
			RuleID:        r.ID,
			RuleName:      r.Name,
			AffectedItems: r.AffectedItems,
			Applied:       make(types.Adjustments, len(r.Adjustments)),
		}
		for f, v := range r.Adjustments {
			if by, ok := suppressedBy(candidates, dominators[i], f); ok {
				if contrib.Suppressed == nil {
					contrib.Suppressed = make(map[types.Field]types.RuleID)
				}
				contrib.Suppressed[f] = by
				continue
			}
			contrib.Applied[f] = v
			if !inert {
				res.Totals[f] += v
			}
		}
		res.Contributions = append(res.Contributions, contrib)
	}

	clampAll(res.Totals)
	return res
}

// suppressedBy returns the first dominator, by id, that defines field.
func suppressedBy(candidates []*CompiledRule, doms []int, field types.Field) (types.RuleID, bool) {
	var ids []types.RuleID
	for _, d := range doms {
		if candidates[d].Adjustments.Defines(field) {
			ids = append(ids, candidates[d].ID)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], true
}

func clampAll(a types.Adjustments) {
	for f, v := range a {
		a[f] = clamp(v)
	}
}

func clamp(v int) int {
	if v < types.MinAdjustment {
		return types.MinAdjustment
	}
	if v > types.MaxAdjustment {
		return types.MaxAdjustment
	}
	return v
}
