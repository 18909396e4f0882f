package rules

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestEngine_CheckBlocksOnlyActiveCandidates(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	existing := []types.Rule{fitnessRule("existing", goals("tone"), types.Adjustments{types.FieldWeight: -5})}

	draft := fitnessRule("", goals("tone"), types.Adjustments{types.FieldWeight: -10})
	result, err := engine.Check(draft, existing)
	if err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
	if !result.Blocked {
		t.Errorf("Blocked = false, want true for active candidate")
	}
	if result.TableVersion != SpecificityTableVersion {
		t.Errorf("TableVersion = %q, want %q", result.TableVersion, SpecificityTableVersion)
	}

	draft.IsActive = false
	result, err = engine.Check(draft, existing)
	if err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
	if result.Blocked {
		t.Errorf("Blocked = true, want false for inactive candidate")
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].Kind != types.ConflictCritical {
		t.Errorf("Conflicts = %+v, want one critical entry", result.Conflicts)
	}
}

func TestEngine_CheckRejectsInvalidCandidate(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	bad := fitnessRule("bad", types.Criteria{AgeRange: span(60, 20)}, nil)

	_, err := engine.Check(bad, nil)
	if !errors.Is(err, types.ErrMalformedRange) {
		t.Errorf("Check() error = %v, want %v", err, types.ErrMalformedRange)
	}
}

func TestEngine_SkipsInvalidStoredRules(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	stored := []types.Rule{
		fitnessRule("broken", types.Criteria{WeightRangeKg: span(90, 10)}, types.Adjustments{types.FieldWeight: 50}),
		fitnessRule("fine", types.Criteria{}, types.Adjustments{types.FieldWeight: 5}),
	}

	res, err := engine.Resolve("p1", types.CategoryFitness, types.ClientProfile{Age: 30, WeightKg: 50}, stored)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if res.Totals[types.FieldWeight] != 5 {
		t.Errorf("Totals[weight] = %d, want 5", res.Totals[types.FieldWeight])
	}
}

func TestEngine_ResolveValidatesInput(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	if _, err := engine.Resolve("p1", "yoga", types.ClientProfile{}, nil); !errors.Is(err, types.ErrUnknownCategory) {
		t.Errorf("Resolve(bad category) error = %v, want %v", err, types.ErrUnknownCategory)
	}
	if _, err := engine.Resolve("p1", types.CategoryFitness, types.ClientProfile{Age: -1}, nil); !errors.Is(err, types.ErrInvalidProfile) {
		t.Errorf("Resolve(bad profile) error = %v, want %v", err, types.ErrInvalidProfile)
	}
}

func TestEngine_Lint(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	paused := fitnessRule("paused", goals("tone"), nil)
	paused.IsActive = false

	findings, err := engine.Lint([]types.Rule{
		fitnessRule("a", goals("tone"), nil),
		fitnessRule("b", types.Criteria{ActivityLevels: []types.ActivityLevel{types.ActivityLight}}, nil),
		fitnessRule("c", goals("tone"), nil),
		paused,
	})
	if err != nil {
		t.Fatalf("Lint() error = %v, want nil", err)
	}

	if len(findings) != 3 {
		t.Fatalf("len(findings) = %d, want 3: %+v", len(findings), findings)
	}
	if findings[0].Kind != types.ConflictCritical || findings[0].RuleID != "a" || findings[0].OtherID != "c" {
		t.Errorf("findings[0] = %+v, want critical a/c", findings[0])
	}
	for _, f := range findings[1:] {
		if f.Kind != types.ConflictInfo {
			t.Errorf("finding %s/%s kind = %v, want info", f.RuleID, f.OtherID, f.Kind)
		}
	}

	if _, err := engine.Lint([]types.Rule{fitnessRule("bad", types.Criteria{AgeRange: span(9, 1)}, nil)}); err == nil {
		t.Errorf("Lint() error = nil, want malformed range")
	}
}
