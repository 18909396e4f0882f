package types

import "errors"

// Sentinel errors for rulekeeper operations.
var (
	// ErrInvalidRule indicates a rule failed structural validation.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrMalformedRange indicates a criteria range with min > max or a negative bound.
	ErrMalformedRange = errors.New("malformed range")

	// ErrAdjustmentOutOfRange indicates a percentage outside [MinAdjustment, MaxAdjustment].
	ErrAdjustmentOutOfRange = errors.New("adjustment out of range")

	// ErrFieldNotApplicable indicates a nonzero adjustment on a field the category does not use.
	ErrFieldNotApplicable = errors.New("adjustment field not applicable to category")

	// ErrEmptyName indicates a rule without a display name was submitted for persistence.
	ErrEmptyName = errors.New("rule name is empty")

	// ErrUnknownCategory indicates an unrecognized category label.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownGender indicates an unrecognized gender label.
	ErrUnknownGender = errors.New("unknown gender")

	// ErrUnknownActivityLevel indicates an unrecognized activity level label.
	ErrUnknownActivityLevel = errors.New("unknown activity level")

	// ErrInvalidProfile indicates client profile input that cannot be coerced.
	ErrInvalidProfile = errors.New("invalid client profile")

	// ErrCriticalConflict indicates a save was blocked by an identical-profile rule.
	ErrCriticalConflict = errors.New("rule contradicts an existing active rule")

	// ErrInvalidRuleID indicates a rule identifier that is not a UUID.
	ErrInvalidRuleID = errors.New("invalid rule id")

	// ErrRuleNotFound indicates the rule does not exist for the coach.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrRuleLimitExceeded indicates the coach already owns the configured maximum of rules.
	ErrRuleLimitExceeded = errors.New("rule limit exceeded")

	// ErrStorage indicates the rule store failed; callers may retry.
	ErrStorage = errors.New("rule storage failure")
)
