package rules

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/coachkit/rulekeeper/internal/types"
)

// Engine wraps the pure rule functions for the service and CLI layers:
// it compiles raw rules, skips stored rules that no longer validate, and
// logs what the pure functions only return.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a new rules engine instance.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger.With().Str("component", "rules").Logger()}
}

// CheckResult is the conflict report for one candidate rule.
type CheckResult struct {
	Conflicts []types.ConflictEntry
	// Blocked is set when the candidate is active and a critical conflict exists.
	Blocked      bool
	TableVersion string
}

// Check reports how candidate relates to the active rules.
// An inactive candidate is still reported on but never blocked; activation
// checks again.
func (e *Engine) Check(candidate types.Rule, active []types.Rule) (*CheckResult, error) {
	compiled, err := Compile(candidate)
	if err != nil {
		return nil, err
	}

	entries := Report(compiled, e.compileStored(active))
	result := &CheckResult{
		Conflicts:    entries,
		Blocked:      candidate.IsActive && Blocking(entries),
		TableVersion: SpecificityTableVersion,
	}

	e.logger.Debug().
		Str("rule_id", string(candidate.ID)).
		Int("conflicts", len(entries)).
		Bool("blocked", result.Blocked).
		Msg("Conflict check complete")

	return result, nil
}

// Resolve computes a client's adjustments from the coach's rules.
func (e *Engine) Resolve(product types.ProductID, category types.Category, profile types.ClientProfile, rules []types.Rule) (*Resolution, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
	if err := types.ValidateProfile(profile); err != nil {
		return nil, err
	}

	res := Resolve(product, category, profile, e.compileStored(rules))

	for _, pair := range res.Contradictions {
		e.logger.Warn().
			Str("product_id", string(product)).
			Str("rule_a", string(pair[0])).
			Str("rule_b", string(pair[1])).
			Msg("Contradicting rules both applied")
	}
	return res, nil
}

// LintFinding is one related pair inside a rule set.
type LintFinding struct {
	RuleID    types.RuleID
	RuleName  string
	OtherID   types.RuleID
	OtherName string
	Kind      types.ConflictKind
	Reasons   []string
}

// Lint classifies every pair of active rules in a set, most severe first.
// Unlike Check, every rule must validate.
func (e *Engine) Lint(set []types.Rule) ([]LintFinding, error) {
	compiled, err := CompileAll(set)
	if err != nil {
		return nil, err
	}

	var findings []LintFinding
	for i := 0; i < len(compiled); i++ {
		if !compiled[i].IsActive {
			continue
		}
		for j := i + 1; j < len(compiled); j++ {
			if !compiled[j].IsActive || (compiled[i].ID != "" && compiled[i].ID == compiled[j].ID) {
				continue
			}
			c := Classify(compiled[i], compiled[j])
			if !c.Related() {
				continue
			}
			findings = append(findings, LintFinding{
				RuleID:    compiled[i].ID,
				RuleName:  compiled[i].Name,
				OtherID:   compiled[j].ID,
				OtherName: compiled[j].Name,
				Kind:      c.Kind,
				Reasons:   reasons(compiled[i], compiled[j], c),
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Kind < findings[j].Kind
	})
	return findings, nil
}

// compileStored compiles persisted rules, skipping and logging invalid ones.
// A rule saved under older validation must not take the whole coach down.
func (e *Engine) compileStored(stored []types.Rule) []*CompiledRule {
	compiled := make([]*CompiledRule, 0, len(stored))
	for _, r := range stored {
		cr, err := Compile(r)
		if err != nil {
			e.logger.Warn().Err(err).Str("rule_id", string(r.ID)).Msg("Skipping invalid stored rule")
			continue
		}
		compiled = append(compiled, cr)
	}
	return compiled
}
