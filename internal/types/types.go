// Package types provides the domain model shared across rulekeeper components.
//
// Storage- and wire-agnostic: the store and the gRPC API convert to and from
// these types at their boundaries, so the rule engine in internal/rules never
// observes a schema. Only ids.go pulls in a third-party module (uuid), and
// validate.go the struct validator.
package types

import (
	"fmt"
	"strings"
)

// RuleID identifies a rule. UUIDv7 string, assigned on creation and immutable.
type RuleID string

// CoachID identifies the coach owning a rule set.
type CoachID string

// ProductID identifies a coach product (program or plan) a rule can be scoped to.
type ProductID string

// ItemID identifies a single exercise or meal inside a product.
type ItemID string

// Category partitions rules; rules only ever interact within one category.
type Category string

const (
	CategoryFitness   Category = "fitness"
	CategoryNutrition Category = "nutrition"
)

// Gender is a criteria filter or a concrete profile value.
// GenderAll is only meaningful as a filter.
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel is the client's self-reported activity level.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Field names an adjustable program parameter.
type Field string

const (
	FieldWeight   Field = "weight"
	FieldReps     Field = "reps"
	FieldSeries   Field = "series"
	FieldRest     Field = "rest"
	FieldPortions Field = "portions"
)

// Limits and defaults for rule content.
const (
	// MinAdjustment and MaxAdjustment bound a single percentage delta and the
	// clamped sum of deltas for one field.
	MinAdjustment = -200
	MaxAdjustment = 200

	DefaultAgeMin = 0
	DefaultAgeMax = 100

	DefaultWeightMinKg = 0
	DefaultWeightMaxKg = 200
)

// categoryFields lists the adjustable fields per category, in display order.
var categoryFields = map[Category][]Field{
	CategoryFitness:   {FieldWeight, FieldReps, FieldSeries, FieldRest},
	CategoryNutrition: {FieldPortions},
}

// Fields returns the adjustable fields of the category, nil for unknown categories.
func (c Category) Fields() []Field {
	return categoryFields[c]
}

// Allows reports whether field is meaningful for the category.
func (c Category) Allows(field Field) bool {
	for _, f := range categoryFields[c] {
		if f == field {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryFields[c]
	return ok
}

// UnmarshalText accepts canonical names and the aliases used by the coaching UI.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalText accepts canonical names and aliases; empty means GenderAll.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// UnmarshalText accepts canonical names and aliases.
func (l *ActivityLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseActivityLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

var categoryAliases = map[string]Category{
	"fitness":   CategoryFitness,
	"training":  CategoryFitness,
	"nutrition": CategoryNutrition,
	"nutricion": CategoryNutrition,
	"nutrición": CategoryNutrition,
}

var genderAliases = map[string]Gender{
	"":          GenderAll,
	"all":       GenderAll,
	"any":       GenderAll,
	"todos":     GenderAll,
	"male":      GenderMale,
	"m":         GenderMale,
	"masculino": GenderMale,
	"hombre":    GenderMale,
	"female":    GenderFemale,
	"f":         GenderFemale,
	"femenino":  GenderFemale,
	"mujer":     GenderFemale,
}

var activityAliases = map[string]ActivityLevel{
	"sedentary":   ActivitySedentary,
	"sedentario":  ActivitySedentary,
	"light":       ActivityLight,
	"ligero":      ActivityLight,
	"moderate":    ActivityModerate,
	"moderado":    ActivityModerate,
	"active":      ActivityActive,
	"activo":      ActivityActive,
	"very_active": ActivityVeryActive,
	"very active": ActivityVeryActive,
	"veryactive":  ActivityVeryActive,
	"muy_activo":  ActivityVeryActive,
	"muy activo":  ActivityVeryActive,
}

func aliasKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCategory converts a loose category label to a Category.
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[aliasKey(s)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseGender converts a loose gender label to a Gender.
func ParseGender(s string) (Gender, error) {
	if g, ok := genderAliases[aliasKey(s)]; ok {
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// ParseActivityLevel converts a loose activity label to an ActivityLevel.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	if l, ok := activityAliases[aliasKey(s)]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivityLevel, s)
}
