// internal/types/rules.go
package types

import (
	"encoding/json"
	"sort"
	"strings"
)

/*
 * Domain types for rule authoring and evaluation.
 *
 * Provides Rule, Criteria, Scope, Adjustments, AffectedItems, ClientProfile
 * and ConflictEntry used by internal/rules for classification and resolution.
 * Wire-format agnostic: JSON tags exist for the API and rule files, but the
 * engine only ever sees these structs.
 *
 * Zero values are "no restriction" wherever the model allows it: a nil range
 * is the default range, an empty set matches anything, an empty scope is
 * global, an unrestricted AffectedItems covers every item.
 */

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether v lies inside the inclusive interval.
func (r Range) Contains(v float64) bool {
	return v >= float64(r.Min) && v <= float64(r.Max)
}

// Overlaps is the interval intersection test.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// NarrowerThan reports whether r excludes any part of the default interval d.
func (r Range) NarrowerThan(d Range) bool {
	return r.Min > d.Min || r.Max < d.Max
}

// DefaultAgeRange is the unrestricted age interval.
func DefaultAgeRange() Range { return Range{Min: DefaultAgeMin, Max: DefaultAgeMax} }

// DefaultWeightRange is the unrestricted body-weight interval in kilograms.
func DefaultWeightRange() Range { return Range{Min: DefaultWeightMinKg, Max: DefaultWeightMaxKg} }

// Criteria is the applicability predicate of a rule.
type Criteria struct {
	Gender         Gender          `json:"gender,omitempty" validate:"omitempty,oneof=all male female"`
	AgeRange       *Range          `json:"age_range,omitempty"`
	WeightRangeKg  *Range          `json:"weight_range_kg,omitempty"`
	ActivityLevels []ActivityLevel `json:"activity_levels,omitempty" validate:"dive,oneof=sedentary light moderate active very_active"`
	FitnessGoals   []string        `json:"fitness_goals,omitempty" validate:"dive,required"`
	Injuries       []string        `json:"injuries,omitempty" validate:"dive,required"`
}

// Age returns the effective age interval.
func (c Criteria) Age() Range {
	if c.AgeRange == nil {
		return DefaultAgeRange()
	}
	return *c.AgeRange
}

// Weight returns the effective body-weight interval.
func (c Criteria) Weight() Range {
	if c.WeightRangeKg == nil {
		return DefaultWeightRange()
	}
	return *c.WeightRangeKg
}

// EffectiveGender maps the empty gender to GenderAll.
func (c Criteria) EffectiveGender() Gender {
	if c.Gender == "" {
		return GenderAll
	}
	return c.Gender
}

// Normalize returns a copy with sorted, deduplicated sets and explicit gender.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Gender:         c.EffectiveGender(),
		ActivityLevels: NormalizeLevels(c.ActivityLevels),
		FitnessGoals:   NormalizeTags(c.FitnessGoals),
		Injuries:       NormalizeTags(c.Injuries),
	}
	if c.AgeRange != nil {
		r := *c.AgeRange
		out.AgeRange = &r
	}
	if c.WeightRangeKg != nil {
		r := *c.WeightRangeKg
		out.WeightRangeKg = &r
	}
	return out
}

// Scope restricts a rule to products. No products means global.
type Scope struct {
	Products []ProductID `json:"products,omitempty"`
}

// GlobalScope applies to every product of the rule's category.
func GlobalScope() Scope { return Scope{} }

// ProductScope applies only to the given products.
func ProductScope(ids ...ProductID) Scope { return Scope{Products: ids} }

// IsGlobal reports whether the scope covers every product.
func (s Scope) IsGlobal() bool { return len(s.Products) == 0 }

// Includes reports whether product p is in scope.
func (s Scope) Includes(p ProductID) bool {
	if s.IsGlobal() {
		return true
	}
	for _, id := range s.Products {
		if id == p {
			return true
		}
	}
	return false
}

// Normalize returns a copy with sorted, deduplicated product ids.
func (s Scope) Normalize() Scope {
	return Scope{Products: normalizeSet(s.Products, func(p ProductID) ProductID {
		return ProductID(strings.TrimSpace(string(p)))
	})}
}

// AffectedItems selects the exercises or meals a rule's adjustments apply to.
// Unrestricted covers all items; restricted with no items is inert.
type AffectedItems struct {
	Restricted bool     `json:"restricted,omitempty"`
	Items      []ItemID `json:"items,omitempty"`
}

// AllItems covers every item.
func AllItems() AffectedItems { return AffectedItems{} }

// OnlyItems covers the listed items only.
func OnlyItems(ids ...ItemID) AffectedItems {
	return AffectedItems{Restricted: true, Items: ids}
}

// Covers reports whether item receives the rule's contribution.
func (a AffectedItems) Covers(item ItemID) bool {
	if !a.Restricted {
		return true
	}
	for _, id := range a.Items {
		if id == item {
			return true
		}
	}
	return false
}

// Inert reports whether the selection matches no items at all.
func (a AffectedItems) Inert() bool {
	return a.Restricted && len(a.Items) == 0
}

// Normalize marks a non-empty item list as restricted and dedupes it.
func (a AffectedItems) Normalize() AffectedItems {
	items := normalizeSet(a.Items, func(i ItemID) ItemID {
		return ItemID(strings.TrimSpace(string(i)))
	})
	return AffectedItems{Restricted: a.Restricted || len(items) > 0, Items: items}
}

// Adjustments maps fields to integer percentage deltas.
// A field is defined when present with a nonzero value.
type Adjustments map[Field]int

// Defines reports whether the field carries a nonzero delta.
func (a Adjustments) Defines(f Field) bool {
	return a[f] != 0
}

// Normalize returns a copy without zero entries.
func (a Adjustments) Normalize() Adjustments {
	out := make(Adjustments, len(a))
	for f, v := range a {
		if v != 0 {
			out[f] = v
		}
	}
	return out
}

// ZeroAdjustments returns every field of the category set to 0.
func ZeroAdjustments(c Category) Adjustments {
	out := make(Adjustments, len(c.Fields()))
	for _, f := range c.Fields() {
		out[f] = 0
	}
	return out
}

// Rule is a coach-authored personalization directive.
type Rule struct {
	ID            RuleID        `json:"id,omitempty"`
	Name          string        `json:"name" validate:"required"`
	IsActive      bool          `json:"is_active"`
	Category      Category      `json:"category" validate:"oneof=fitness nutrition"`
	Scope         Scope         `json:"scope"`
	Criteria      Criteria      `json:"criteria"`
	Adjustments   Adjustments   `json:"adjustments,omitempty" validate:"dive,keys,oneof=weight reps series rest portions,endkeys"`
	AffectedItems AffectedItems `json:"affected_items"`
}

// Normalize returns a deep copy with every component normalized.
func (r Rule) Normalize() Rule {
	return Rule{
		ID:            r.ID,
		Name:          strings.TrimSpace(r.Name),
		IsActive:      r.IsActive,
		Category:      r.Category,
		Scope:         r.Scope.Normalize(),
		Criteria:      r.Criteria.Normalize(),
		Adjustments:   r.Adjustments.Normalize(),
		AffectedItems: r.AffectedItems.Normalize(),
	}
}

// ClientProfile is the concrete client a rule set is evaluated for.
type ClientProfile struct {
	Gender        Gender        `json:"gender"`
	Age           int           `json:"age"`
	WeightKg      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty"`
	Goals         []string      `json:"goals,omitempty"`
	Injuries      []string      `json:"injuries,omitempty"`
}

// ConflictKind classifies how two rules' applicability relates.
// Ordered by severity: lower values are reported first.
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	ConflictCritical
	ConflictSpecific
	ConflictInfo
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictCritical:
		return "critical"
	case ConflictSpecific:
		return "specific"
	case ConflictInfo:
		return "info"
	default:
		return "none"
	}
}

// MarshalJSON encodes the kind by name.
func (k ConflictKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name; unknown names decode to ConflictNone.
func (k *ConflictKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "critical":
		*k = ConflictCritical
	case "specific":
		*k = ConflictSpecific
	case "info":
		*k = ConflictInfo
	default:
		*k = ConflictNone
	}
	return nil
}

// ConflictEntry describes the relationship between a candidate and one existing rule.
type ConflictEntry struct {
	OtherRuleID   RuleID       `json:"other_rule_id"`
	OtherRuleName string       `json:"other_rule_name,omitempty"`
	Kind          ConflictKind `json:"kind"`
	Reasons       []string     `json:"reasons"`
}

// NormalizeTags trims, drops empty tags, dedupes and sorts.
func NormalizeTags(tags []string) []string {
	return normalizeSet(tags, strings.TrimSpace)
}

// NormalizeLevels dedupes and sorts activity levels.
func NormalizeLevels(levels []ActivityLevel) []ActivityLevel {
	return normalizeSet(levels, func(l ActivityLevel) ActivityLevel { return l })
}

// normalizeSet maps, drops zero values, dedupes and sorts. Returns nil for an empty result.
func normalizeSet[T ~string](in []T, clean func(T) T) []T {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		v = clean(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
