package types

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ruleValidate is the validator instance for rule datatypes.
var ruleValidate = validator.New()

// ValidateRule checks everything the engine relies on: category, ranges,
// adjustment bounds and enum values. The display name is not required, so
// unsaved drafts can be checked for conflicts.
func ValidateRule(r Rule) error {
	return validateRule(r, false)
}

// ValidateForSave is ValidateRule plus the persistence requirements (non-empty name).
func ValidateForSave(r Rule) error {
	return validateRule(r, true)
}

func validateRule(r Rule, forSave bool) error {
	if forSave && strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}
	if err := ValidateCriteria(r.Criteria); err != nil {
		return err
	}

	fields := make([]Field, 0, len(r.Adjustments))
	for f := range r.Adjustments {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	for _, f := range fields {
		v := r.Adjustments[f]
		if v < MinAdjustment || v > MaxAdjustment {
			return fmt.Errorf("%w: %s = %d (allowed %d..%d)", ErrAdjustmentOutOfRange, f, v, MinAdjustment, MaxAdjustment)
		}
		if v != 0 && !r.Category.Allows(f) {
			return fmt.Errorf("%w: %s on a %s rule", ErrFieldNotApplicable, f, r.Category)
		}
	}

	var err error
	if forSave {
		err = ruleValidate.Struct(r)
	} else {
		err = ruleValidate.StructExcept(r, "Name")
	}
	return foldValidationError(err)
}

// ValidateCriteria rejects malformed ranges and unknown enum values.
// Must run before a Criteria value reaches any comparison.
func ValidateCriteria(c Criteria) error {
	if err := validateRange("age_range", c.AgeRange); err != nil {
		return err
	}
	if err := validateRange("weight_range_kg", c.WeightRangeKg); err != nil {
		return err
	}
	return foldValidationError(ruleValidate.Struct(c))
}

func validateRange(name string, r *Range) error {
	if r == nil {
		return nil
	}
	if r.Min < 0 {
		return fmt.Errorf("%w: %s min %d is negative", ErrMalformedRange, name, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %d > max %d", ErrMalformedRange, name, r.Min, r.Max)
	}
	return nil
}

// ValidateProfile rejects negative measurements and unknown enum values.
func ValidateProfile(p ClientProfile) error {
	if p.Age < 0 {
		return fmt.Errorf("%w: age %d is negative", ErrInvalidProfile, p.Age)
	}
	if math.IsNaN(p.WeightKg) || math.IsInf(p.WeightKg, 0) {
		return fmt.Errorf("%w: weight %v is not finite", ErrInvalidProfile, p.WeightKg)
	}
	if p.WeightKg < 0 {
		return fmt.Errorf("%w: weight %.1f is negative", ErrInvalidProfile, p.WeightKg)
	}
	if p.Gender != "" {
		if _, err := ParseGender(string(p.Gender)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}
	if p.ActivityLevel != "" {
		if _, err := ParseActivityLevel(string(p.ActivityLevel)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}
	return nil
}

// foldValidationError collapses validator output into ErrInvalidRule.
func foldValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRule, strings.Join(msgs, "; "))
}
