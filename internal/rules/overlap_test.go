package rules

import (
	"testing"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestScopesOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Rule
		want bool
	}{
		{
			name: "both global",
			a:    fitnessRule("a", types.Criteria{}, nil),
			b:    fitnessRule("b", types.Criteria{}, nil),
			want: true,
		},
		{
			name: "global and product",
			a:    fitnessRule("a", types.Criteria{}, nil),
			b:    withScope(fitnessRule("b", types.Criteria{}, nil), "p1"),
			want: true,
		},
		{
			name: "shared product",
			a:    withScope(fitnessRule("a", types.Criteria{}, nil), "p1", "p2"),
			b:    withScope(fitnessRule("b", types.Criteria{}, nil), "p2", "p3"),
			want: true,
		},
		{
			name: "disjoint products",
			a:    withScope(fitnessRule("a", types.Criteria{}, nil), "p1"),
			b:    withScope(fitnessRule("b", types.Criteria{}, nil), "p2"),
			want: false,
		},
		{
			name: "different categories",
			a:    fitnessRule("a", types.Criteria{}, nil),
			b:    nutritionRule("b", types.Criteria{}, nil),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopesOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("ScopesOverlap() = %v, want %v", got, tt.want)
			}
			if got := ScopesOverlap(tt.b, tt.a); got != tt.want {
				t.Errorf("ScopesOverlap(reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDemographicsOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Criteria
		want bool
	}{
		{"unrestricted", types.Criteria{}, types.Criteria{}, true},
		{"all is a wildcard", types.Criteria{Gender: types.GenderAll}, types.Criteria{Gender: types.GenderMale}, true},
		{"same gender", types.Criteria{Gender: types.GenderFemale}, types.Criteria{Gender: types.GenderFemale}, true},
		{"different genders", types.Criteria{Gender: types.GenderFemale}, types.Criteria{Gender: types.GenderMale}, false},
		{"ages touch at boundary", types.Criteria{AgeRange: span(18, 25)}, types.Criteria{AgeRange: span(25, 40)}, true},
		{"ages disjoint", types.Criteria{AgeRange: span(18, 25)}, types.Criteria{AgeRange: span(26, 40)}, false},
		{"weights disjoint", types.Criteria{WeightRangeKg: span(40, 60)}, types.Criteria{WeightRangeKg: span(61, 90)}, false},
		{"weight nested", types.Criteria{WeightRangeKg: span(40, 90)}, types.Criteria{WeightRangeKg: span(50, 60)}, true},
		{"sets ignored", goals("tone"), goals("strength"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DemographicsOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("DemographicsOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func withScope(r types.Rule, products ...types.ProductID) types.Rule {
	r.Scope = types.ProductScope(products...)
	return r
}
