package api

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/core/db"
	"github.com/coachkit/rulekeeper/internal/core/metrics"
	"github.com/coachkit/rulekeeper/internal/types"
)

// SaveRule validates, conflict-checks and persists a rule.
//
// Save flow:
//  1. Validate for persistence (name required)
//  2. Lock the coach so check and write see the same rule set
//  3. New rules: enforce the per-coach limit. Edits: the rule must exist
//  4. Conflict check; an active rule with a critical conflict is refused
//     with FAILED_PRECONDITION and the report attached
//  5. Store the normalized rule; non-blocking conflicts are returned
func (s *RuleService) SaveRule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SaveRuleRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := types.ValidateForSave(req.Rule); err != nil {
		return nil, toStatus(err)
	}
	if req.Rule.ID != "" {
		if _, err := types.ParseRuleID(string(req.Rule.ID)); err != nil {
			return nil, toStatus(err)
		}
	}
	rule := req.Rule.Normalize()

	mu := s.getCoachMutex(coach)
	mu.Lock()
	defer mu.Unlock()

	if rule.ID == "" {
		if err := s.checkRuleLimit(ctx, coach); err != nil {
			return nil, toStatus(err)
		}
	} else if _, err := s.store.Get(ctx, coach, rule.ID); err != nil {
		return nil, toStatus(err)
	}

	report, err := s.check(ctx, coach, rule)
	if err != nil {
		return nil, toStatus(err)
	}
	if report.Blocked {
		metrics.RecordBlocked("save")
		s.logger.Info().
			Str("coach_id", string(coach)).
			Str("rule_id", string(rule.ID)).
			Int("conflicts", len(report.Conflicts)).
			Msg("Save blocked by critical conflict")
		return nil, conflictStatus(report)
	}

	var stored *db.StoredRule
	if rule.ID == "" {
		stored, err = s.store.Create(ctx, coach, rule)
	} else {
		stored, err = s.store.Update(ctx, coach, rule)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info().
		Str("coach_id", string(coach)).
		Str("rule_id", string(stored.ID)).
		Bool("active", stored.IsActive).
		Int("conflicts", len(report.Conflicts)).
		Msg("Rule saved")

	return respond(&SaveRuleResponse{
		Rule:      toRecord(stored),
		Conflicts: report.Conflicts,
	})
}

// SetRuleActive activates or deactivates a rule. Activation is checked
// like a save of the rule with is_active set.
func (s *RuleService) SetRuleActive(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SetRuleActiveRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}
	if _, err := types.ParseRuleID(string(req.RuleID)); err != nil {
		return nil, toStatus(err)
	}

	mu := s.getCoachMutex(coach)
	mu.Lock()
	defer mu.Unlock()

	stored, err := s.store.Get(ctx, coach, req.RuleID)
	if err != nil {
		return nil, toStatus(err)
	}

	conflicts := []types.ConflictEntry{}
	if req.Active && !stored.IsActive {
		candidate := stored.Rule
		candidate.IsActive = true

		report, err := s.check(ctx, coach, candidate)
		if err != nil {
			return nil, toStatus(err)
		}
		if report.Blocked {
			metrics.RecordBlocked("activate")
			s.logger.Info().
				Str("coach_id", string(coach)).
				Str("rule_id", string(req.RuleID)).
				Msg("Activation blocked by critical conflict")
			return nil, conflictStatus(report)
		}
		conflicts = report.Conflicts
	}

	if stored.IsActive != req.Active {
		if err := s.store.SetActive(ctx, coach, req.RuleID, req.Active); err != nil {
			return nil, toStatus(err)
		}
		stored, err = s.store.Get(ctx, coach, req.RuleID)
		if err != nil {
			return nil, toStatus(err)
		}
		s.logger.Info().
			Str("coach_id", string(coach)).
			Str("rule_id", string(req.RuleID)).
			Bool("active", req.Active).
			Msg("Rule activation changed")
	}

	return respond(&SetRuleActiveResponse{
		Rule:      toRecord(stored),
		Conflicts: conflicts,
	})
}

// DeleteRule removes a rule. Deleting never creates a conflict.
func (s *RuleService) DeleteRule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DeleteRuleRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}
	if _, err := types.ParseRuleID(string(req.RuleID)); err != nil {
		return nil, toStatus(err)
	}

	mu := s.getCoachMutex(coach)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, coach, req.RuleID); err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info().
		Str("coach_id", string(coach)).
		Str("rule_id", string(req.RuleID)).
		Msg("Rule deleted")

	return respond(&DeleteRuleResponse{Deleted: true})
}

func (s *RuleService) checkRuleLimit(ctx context.Context, coach types.CoachID) error {
	count, err := s.store.Count(ctx, coach)
	if err != nil {
		return err
	}
	if count >= s.cfg.MaxRulesPerCoach {
		return fmt.Errorf("%w: coach %s owns %d rules (max %d)",
			types.ErrRuleLimitExceeded, coach, count, s.cfg.MaxRulesPerCoach)
	}
	return nil
}
