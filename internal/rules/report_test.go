package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestReport_OrderAndFiltering(t *testing.T) {
	candidate := mustCompile(t, fitnessRule("candidate", goals("tone"), types.Adjustments{types.FieldWeight: -10}))

	inactive := fitnessRule("inactive", goals("tone"), nil)
	inactive.IsActive = false

	active := mustCompileAll(t,
		fitnessRule("additive", types.Criteria{ActivityLevels: []types.ActivityLevel{types.ActivityLight}}, nil),
		fitnessRule("narrower", types.Criteria{FitnessGoals: []string{"tone"}, Injuries: []string{"knee"}}, nil),
		fitnessRule("twin", goals("tone"), types.Adjustments{types.FieldReps: 5}),
		inactive,
		fitnessRule("candidate", goals("tone"), nil),
		withScope(fitnessRule("elsewhere", goals("tone"), nil), "p9"),
		nutritionRule("meals", goals("tone"), nil),
	)
	candidate.Scope = types.ProductScope("p1")

	entries := Report(candidate, active)

	want := []struct {
		id   types.RuleID
		kind types.ConflictKind
	}{
		{"twin", types.ConflictCritical},
		{"narrower", types.ConflictSpecific},
		{"additive", types.ConflictInfo},
	}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i].OtherRuleID != w.id || entries[i].Kind != w.kind {
			t.Errorf("entries[%d] = %s/%v, want %s/%v", i, entries[i].OtherRuleID, entries[i].Kind, w.id, w.kind)
		}
	}
	if !Blocking(entries) {
		t.Errorf("Blocking() = false, want true")
	}
}

func TestReport_Reasons(t *testing.T) {
	candidate := mustCompile(t, withScope(fitnessRule("c", goals("tone"), nil), "p1", "p2"))
	active := mustCompileAll(t,
		withScope(fitnessRule("narrower", types.Criteria{FitnessGoals: []string{"tone"}, Injuries: []string{"knee"}}, nil), "p2", "p3"),
	)

	entries := Report(candidate, active)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	reasons := entries[0].Reasons
	if !strings.HasPrefix(reasons[0], "scope: shared products [p2]") {
		t.Errorf("reasons[0] = %q, want scope fact first", reasons[0])
	}
	joined := strings.Join(reasons, "\n")
	for _, want := range []string{`"narrower" is more specific (score 7 vs 2)`, "injuries [knee]"} {
		if !strings.Contains(joined, want) {
			t.Errorf("reasons missing %q:\n%s", want, joined)
		}
	}
}

func TestReport_AmbiguousReason(t *testing.T) {
	candidate := mustCompile(t, fitnessRule("c", types.Criteria{
		Gender:        types.GenderFemale,
		AgeRange:      span(18, 25),
		WeightRangeKg: span(50, 70),
		FitnessGoals:  []string{"tone"},
	}, nil))
	active := mustCompileAll(t, fitnessRule("broad", goals("tone", "strength"), nil))

	entries := Report(candidate, active)
	if len(entries) != 1 || entries[0].Kind != types.ConflictInfo {
		t.Fatalf("entries = %+v, want one info entry", entries)
	}
	if !strings.Contains(strings.Join(entries[0].Reasons, "\n"), "ambiguous precedence") {
		t.Errorf("reasons = %v, want ambiguous precedence", entries[0].Reasons)
	}
}

func TestReport_DoesNotMutateInputs(t *testing.T) {
	candidate := mustCompile(t, fitnessRule("c", goals("tone"), types.Adjustments{types.FieldWeight: -10}))
	active := mustCompileAll(t,
		fitnessRule("a", goals("tone"), nil),
		fitnessRule("b", types.Criteria{Injuries: []string{"knee"}}, nil),
	)

	candidateBefore := *candidate
	activeBefore := make([]CompiledRule, len(active))
	for i, r := range active {
		activeBefore[i] = *r
	}

	Report(candidate, active)

	if !reflect.DeepEqual(*candidate, candidateBefore) {
		t.Errorf("candidate mutated")
	}
	for i, r := range active {
		if !reflect.DeepEqual(*r, activeBefore[i]) {
			t.Errorf("active[%d] mutated", i)
		}
	}
}

func TestReport_NoRelations(t *testing.T) {
	candidate := mustCompile(t, fitnessRule("c", types.Criteria{Gender: types.GenderMale}, nil))
	active := mustCompileAll(t, fitnessRule("f", types.Criteria{Gender: types.GenderFemale}, nil))

	entries := Report(candidate, active)
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
	if Blocking(entries) {
		t.Errorf("Blocking() = true, want false")
	}
}
