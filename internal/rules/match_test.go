package rules

import (
	"testing"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestMatches(t *testing.T) {
	client := types.ClientProfile{
		Gender:        types.GenderFemale,
		Age:           22,
		WeightKg:      61.5,
		ActivityLevel: types.ActivitySedentary,
		Goals:         []string{"lose weight", "tone"},
		Injuries:      []string{"knee"},
	}

	tests := []struct {
		name     string
		criteria types.Criteria
		profile  types.ClientProfile
		want     bool
	}{
		{"unrestricted", types.Criteria{}, client, true},
		{"gender all", types.Criteria{Gender: types.GenderAll}, client, true},
		{"gender equal", types.Criteria{Gender: types.GenderFemale}, client, true},
		{"gender differs", types.Criteria{Gender: types.GenderMale}, client, false},
		{"profile without gender fails a gendered rule", types.Criteria{Gender: types.GenderFemale}, types.ClientProfile{Age: 22}, false},
		{"age at lower bound", types.Criteria{AgeRange: span(22, 30)}, client, true},
		{"age at upper bound", types.Criteria{AgeRange: span(18, 22)}, client, true},
		{"age outside", types.Criteria{AgeRange: span(23, 30)}, client, false},
		{"fractional weight inside", types.Criteria{WeightRangeKg: span(61, 62)}, client, true},
		{"fractional weight above max", types.Criteria{WeightRangeKg: span(50, 61)}, client, false},
		{"level listed", types.Criteria{ActivityLevels: []types.ActivityLevel{types.ActivityLight, types.ActivitySedentary}}, client, true},
		{"level not listed", types.Criteria{ActivityLevels: []types.ActivityLevel{types.ActivityActive}}, client, false},
		{"level required but profile has none", types.Criteria{ActivityLevels: []types.ActivityLevel{types.ActivityActive}}, types.ClientProfile{}, false},
		{"one shared goal", goals("tone", "strength"), client, true},
		{"no shared goal", goals("strength"), client, false},
		{"goal tags trimmed", goals(" tone "), client, true},
		{"goal tags case sensitive", goals("Tone"), client, false},
		{"injury shared", types.Criteria{Injuries: []string{"knee", "back"}}, client, true},
		{"injury required but client healthy", types.Criteria{Injuries: []string{"knee"}}, types.ClientProfile{Gender: types.GenderFemale}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.criteria, tt.profile); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
