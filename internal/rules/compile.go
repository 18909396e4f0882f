// internal/rules/compile.go
package rules

import (
	"fmt"

	"github.com/coachkit/rulekeeper/internal/types"
)

/*
 * Rule compilation and validation.
 *
 * Compiles types.Rule to CompiledRule: validated, normalized (sorted and
 * deduplicated sets, explicit gender, zero adjustments dropped) and with its
 * specificity score precomputed.
 *
 * Compilation workflow:
 *   1. Validate ranges, enums and adjustment bounds (types.ValidateRule)
 *   2. Normalize every component
 *   3. Score specificity once
 *
 * Malformed input is rejected here, at construction, so the classifier and
 * resolver never see a range with min > max. Everything downstream of
 * Compile is total.
 */

// CompiledRule is a validated, normalized rule ready for classification.
type CompiledRule struct {
	types.Rule
	Specificity int
}

// Compile validates and pre-processes a rule.
func Compile(rule types.Rule) (*CompiledRule, error) {
	if err := types.ValidateRule(rule); err != nil {
		if rule.ID != "" {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		return nil, err
	}

	normalized := rule.Normalize()
	return &CompiledRule{
		Rule:        normalized,
		Specificity: Specificity(normalized.Criteria),
	}, nil
}

// CompileAll compiles every rule, stopping at the first invalid one.
func CompileAll(rules []types.Rule) ([]*CompiledRule, error) {
	compiled := make([]*CompiledRule, 0, len(rules))
	for _, r := range rules {
		cr, err := Compile(r)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}
