package rules

import (
	"testing"

	"github.com/coachkit/rulekeeper/internal/types"
)

func fitnessRule(id string, c types.Criteria, adj types.Adjustments) types.Rule {
	return types.Rule{
		ID:          types.RuleID(id),
		Name:        id,
		IsActive:    true,
		Category:    types.CategoryFitness,
		Criteria:    c,
		Adjustments: adj,
	}
}

func nutritionRule(id string, c types.Criteria, adj types.Adjustments) types.Rule {
	r := fitnessRule(id, c, adj)
	r.Category = types.CategoryNutrition
	return r
}

func mustCompile(t *testing.T, r types.Rule) *CompiledRule {
	t.Helper()
	cr, err := Compile(r)
	if err != nil {
		t.Fatalf("Compile(%s) error = %v, want nil", r.ID, err)
	}
	return cr
}

func mustCompileAll(t *testing.T, rs ...types.Rule) []*CompiledRule {
	t.Helper()
	out := make([]*CompiledRule, 0, len(rs))
	for _, r := range rs {
		out = append(out, mustCompile(t, r))
	}
	return out
}

func span(min, max int) *types.Range {
	return &types.Range{Min: min, Max: max}
}

func goals(tags ...string) types.Criteria {
	return types.Criteria{FitnessGoals: tags}
}
