// internal/rules/coercion.go
package rules

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/coachkit/rulekeeper/internal/types"
)

/*
 * Loose-input coercion for client profiles.
 *
 * Client profiles reach the engine as JSON-shaped maps (gRPC structs, YAML
 * files, form posts from the coaching UI). Numbers may arrive as float64,
 * int or numeric strings; tag sets as lists or comma-separated strings;
 * enums as any alias ParseGender/ParseActivityLevel accept.
 *
 * Key distinction: a missing key keeps the zero value, a present value that
 * cannot be coerced fails with ErrInvalidProfile. A profile never silently
 * turns "abc" into age 0.
 *
 * Type modes:
 *   - Numeric: strict - float64, int, int64, trimmed numeric strings; booleans rejected
 *   - Text: strings only, trimmed
 *   - Tags: []any of strings, []string, or a comma-separated string
 */

var (
	profileWeightKeys   = []string{"weight_kg", "weight", "weightKg"}
	profileActivityKeys = []string{"activity_level", "activityLevel"}
	profileGoalKeys     = []string{"goals", "fitness_goals", "fitnessGoals"}
)

// ProfileFromMap builds a ClientProfile from a loosely typed document and validates it.
func ProfileFromMap(doc map[string]any) (types.ClientProfile, error) {
	var p types.ClientProfile

	if v, ok := lookup(doc, "gender"); ok {
		s, err := coerceText(v)
		if err != nil {
			return p, profileError("gender", err)
		}
		g, err := types.ParseGender(s)
		if err != nil {
			return p, profileError("gender", err)
		}
		p.Gender = g
	}

	if v, ok := lookup(doc, "age"); ok {
		f, err := coerceNumeric(v)
		if err != nil {
			return p, profileError("age", err)
		}
		if f != float64(int(f)) {
			return p, profileError("age", fmt.Errorf("%v is not a whole number", f))
		}
		p.Age = int(f)
	}

	if v, ok := lookup(doc, profileWeightKeys...); ok {
		f, err := coerceNumeric(v)
		if err != nil {
			return p, profileError("weight_kg", err)
		}
		p.WeightKg = f
	}

	if v, ok := lookup(doc, profileActivityKeys...); ok {
		s, err := coerceText(v)
		if err != nil {
			return p, profileError("activity_level", err)
		}
		if s != "" {
			l, err := types.ParseActivityLevel(s)
			if err != nil {
				return p, profileError("activity_level", err)
			}
			p.ActivityLevel = l
		}
	}

	if v, ok := lookup(doc, profileGoalKeys...); ok {
		tags, err := coerceTags(v)
		if err != nil {
			return p, profileError("goals", err)
		}
		p.Goals = tags
	}

	if v, ok := lookup(doc, "injuries"); ok {
		tags, err := coerceTags(v)
		if err != nil {
			return p, profileError("injuries", err)
		}
		p.Injuries = tags
	}

	if err := types.ValidateProfile(p); err != nil {
		return p, err
	}
	return p, nil
}

// lookup returns the first non-nil value among keys.
func lookup(doc map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func profileError(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrInvalidProfile, field, err)
}

// coerceNumeric converts value to float64.
// Whitespace-only strings and booleans are rejected.
func coerceNumeric(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, errors.New("empty number")
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("cannot use %T as a number", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number", value)
	}
	return f, nil
}

func coerceText(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("cannot use %T as text", value)
	}
	return strings.TrimSpace(s), nil
}

// coerceTags accepts a list of strings or a comma-separated string.
func coerceTags(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return types.NormalizeTags(strings.Split(v, ",")), nil
	case []string:
		return types.NormalizeTags(v), nil
	case []any:
		tags := make([]string, 0, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("element %d: cannot use %T as a tag", i, elem)
			}
			tags = append(tags, s)
		}
		return types.NormalizeTags(tags), nil
	default:
		return nil, fmt.Errorf("cannot use %T as a tag list", value)
	}
}
