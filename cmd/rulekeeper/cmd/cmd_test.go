package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachkit/rulekeeper/internal/core/api"
	"github.com/coachkit/rulekeeper/internal/types"
)

const lintRules = `
rules:
  - id: beginners
    name: Beginner load
    category: fitness
    criteria: {activity_levels: [sedentary]}
    adjustments: {weight: -10, reps: 10}
  - id: weight-loss
    name: Weight loss beginners
    category: fitness
    criteria: {activity_levels: [sedentary], fitness_goals: [lose weight]}
    adjustments: {weight: -20}
    affected_items: {items: [squat]}
`

const duplicateRule = `
  - id: beginners-copy
    name: Beginner copy
    category: fitness
    criteria: {activity_levels: [sedentary]}
    adjustments: {weight: -5}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		lintFormat = "text"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLint(t *testing.T) {
	path := writeFile(t, "rules.yaml", lintRules)

	out, err := execute(t, "lint", path)
	require.NoError(t, err)
	assert.Contains(t, out, `specific "Beginner load" (beginners) <> "Weight loss beginners" (weight-loss)`)
	assert.Contains(t, out, "2 rule(s): 0 critical, 1 specific, 0 info")
}

func TestLint_CriticalFails(t *testing.T) {
	path := writeFile(t, "rules.yaml", lintRules+duplicateRule)

	out, err := execute(t, "lint", "--format", "json", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCriticalConflict))

	start := bytes.IndexByte([]byte(out), '[')
	require.GreaterOrEqual(t, start, 0, "output: %s", out)
	var entries []lintEntry
	require.NoError(t, json.NewDecoder(bytes.NewReader([]byte(out[start:]))).Decode(&entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, types.ConflictCritical, entries[0].Kind)
	assert.Equal(t, types.RuleID("beginners"), entries[0].RuleID)
	assert.Equal(t, types.RuleID("beginners-copy"), entries[0].OtherID)
}

func TestResolve(t *testing.T) {
	rulesPath := writeFile(t, "rules.yaml", lintRules)
	profilePath := writeFile(t, "profile.yaml", "gender: female\nage: 30\nweight_kg: 65\nactivity_level: sedentary\ngoals: [lose weight]\n")

	out, err := execute(t, "resolve", rulesPath,
		"--profile", profilePath,
		"--product", "program-1",
		"--category", "fitness",
		"--item", "squat",
		"--item", "bench",
	)
	require.NoError(t, err)

	var resp api.ResolveAdjustmentsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Matched)
	assert.Equal(t, -20, resp.Totals[types.FieldWeight])
	assert.Equal(t, 10, resp.Totals[types.FieldReps])
	assert.Equal(t, 0, resp.Items["bench"][types.FieldWeight])
	assert.Equal(t, -20, resp.Items["squat"][types.FieldWeight])
}

func TestResolve_UnknownCategory(t *testing.T) {
	rulesPath := writeFile(t, "rules.yaml", lintRules)
	profilePath := writeFile(t, "profile.yaml", "age: 30\n")

	_, err := execute(t, "resolve", rulesPath,
		"--profile", profilePath,
		"--product", "program-1",
		"--category", "yoga",
	)
	assert.True(t, errors.Is(err, types.ErrUnknownCategory))
}
