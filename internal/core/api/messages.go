package api

import (
	"time"

	"github.com/coachkit/rulekeeper/internal/core/db"
	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

// CoachID may be omitted from any request when the x-coach-id metadata
// header carries it.

// CheckRuleRequest asks for the conflict report of an unsaved rule.
type CheckRuleRequest struct {
	CoachID types.CoachID `json:"coach_id,omitempty"`
	Rule    types.Rule    `json:"rule" validate:"-"`
}

// CheckRuleResponse is the conflict report of a candidate rule.
type CheckRuleResponse struct {
	Conflicts               []types.ConflictEntry `json:"conflicts"`
	Blocked                 bool                  `json:"blocked"`
	SpecificityTableVersion string                `json:"specificity_table_version"`
}

// SaveRuleRequest creates a rule when Rule.ID is empty and replaces it otherwise.
type SaveRuleRequest struct {
	CoachID types.CoachID `json:"coach_id,omitempty"`
	Rule    types.Rule    `json:"rule" validate:"-"`
}

// SaveRuleResponse returns the stored rule with the non-blocking conflicts
// found while saving it.
type SaveRuleResponse struct {
	Rule      RuleRecord            `json:"rule"`
	Conflicts []types.ConflictEntry `json:"conflicts"`
}

// SetRuleActiveRequest toggles a rule. Activation re-runs the conflict check.
type SetRuleActiveRequest struct {
	CoachID types.CoachID `json:"coach_id,omitempty"`
	RuleID  types.RuleID  `json:"rule_id" validate:"required"`
	Active  bool          `json:"active"`
}

// SetRuleActiveResponse returns the updated rule.
type SetRuleActiveResponse struct {
	Rule      RuleRecord            `json:"rule"`
	Conflicts []types.ConflictEntry `json:"conflicts"`
}

// DeleteRuleRequest removes a rule.
type DeleteRuleRequest struct {
	CoachID types.CoachID `json:"coach_id,omitempty"`
	RuleID  types.RuleID  `json:"rule_id" validate:"required"`
}

// DeleteRuleResponse confirms a deletion.
type DeleteRuleResponse struct {
	Deleted bool `json:"deleted"`
}

// ListRulesRequest lists a coach's rules. An empty category lists all.
type ListRulesRequest struct {
	CoachID         types.CoachID `json:"coach_id,omitempty"`
	Category        string        `json:"category,omitempty"`
	IncludeInactive bool          `json:"include_inactive,omitempty"`
}

// ListRulesResponse holds rules in creation order.
type ListRulesResponse struct {
	Rules []RuleRecord `json:"rules"`
}

// ResolveAdjustmentsRequest asks for a client's combined adjustments.
// Profile is coerced leniently: numbers may be strings, tags may be a
// comma-separated string, enums accept their aliases.
type ResolveAdjustmentsRequest struct {
	CoachID   types.CoachID          `json:"coach_id,omitempty"`
	ProductID types.ProductID        `json:"product_id" validate:"required"`
	Category  string                 `json:"category" validate:"required"`
	Profile   map[string]interface{} `json:"profile" validate:"required"`
	Items     []types.ItemID         `json:"items,omitempty"`
}

// ResolveAdjustmentsResponse is the combined adjustment.
type ResolveAdjustmentsResponse struct {
	Matched        bool                               `json:"matched"`
	Totals         types.Adjustments                  `json:"totals"`
	Items          map[types.ItemID]types.Adjustments `json:"items,omitempty"`
	Contributions  []ContributionMessage              `json:"contributions"`
	Contradictions [][2]types.RuleID                  `json:"contradictions,omitempty"`
}

// ContributionMessage is one matching rule's share of a resolution.
type ContributionMessage struct {
	RuleID        types.RuleID                 `json:"rule_id"`
	RuleName      string                       `json:"rule_name"`
	AffectedItems types.AffectedItems          `json:"affected_items"`
	Applied       types.Adjustments            `json:"applied"`
	Suppressed    map[types.Field]types.RuleID `json:"suppressed,omitempty"`
}

// RuleRecord is a stored rule as returned to clients.
type RuleRecord struct {
	types.Rule
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRecord(s *db.StoredRule) RuleRecord {
	return RuleRecord{Rule: s.Rule, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

// NewResolveResponse converts a resolution into its wire form, with per-item
// totals for items.
func NewResolveResponse(res *rules.Resolution, items []types.ItemID) *ResolveAdjustmentsResponse {
	out := &ResolveAdjustmentsResponse{
		Matched:        res.Matched(),
		Totals:         res.Totals,
		Contributions:  make([]ContributionMessage, 0, len(res.Contributions)),
		Contradictions: res.Contradictions,
	}
	for _, c := range res.Contributions {
		out.Contributions = append(out.Contributions, ContributionMessage{
			RuleID:        c.RuleID,
			RuleName:      c.RuleName,
			AffectedItems: c.AffectedItems,
			Applied:       c.Applied,
			Suppressed:    c.Suppressed,
		})
	}
	if len(items) > 0 {
		out.Items = make(map[types.ItemID]types.Adjustments, len(items))
		for _, item := range items {
			out.Items[item] = res.ForItem(item)
		}
	}
	return out
}

// nonNil keeps empty reports as [] rather than null on the wire.
func nonNil(entries []types.ConflictEntry) []types.ConflictEntry {
	if entries == nil {
		return []types.ConflictEntry{}
	}
	return entries
}
