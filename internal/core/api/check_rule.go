package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/core/identity"
	"github.com/coachkit/rulekeeper/internal/core/metrics"
	"github.com/coachkit/rulekeeper/internal/types"
)

// CheckRule reports how a candidate rule relates to the coach's active rules.
// Nothing is saved; Blocked tells the editor whether a save would be refused.
func (s *RuleService) CheckRule(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CheckRuleRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}

	report, err := s.check(ctx, coach, req.Rule)
	if err != nil {
		return nil, toStatus(err)
	}
	return respond(report)
}

// check runs the conflict reporter for rule against the active rules of its
// category. Callers that write hold the coach mutex.
func (s *RuleService) check(ctx context.Context, coach types.CoachID, rule types.Rule) (*CheckRuleResponse, error) {
	if err := types.ValidateRule(rule); err != nil {
		return nil, err
	}

	active, err := s.store.ListActive(ctx, coach, rule.Category)
	if err != nil {
		return nil, err
	}

	result, err := s.rulesEngine.Check(rule, active)
	if err != nil {
		return nil, err
	}
	metrics.RecordConflictCheck(result.Conflicts, result.Blocked)

	return &CheckRuleResponse{
		Conflicts:               nonNil(result.Conflicts),
		Blocked:                 result.Blocked,
		SpecificityTableVersion: result.TableVersion,
	}, nil
}

// decodeRequest decodes in into req, validates it and resolves the coach
// from the request field pointed to by coachField or the metadata header.
func (s *RuleService) decodeRequest(ctx context.Context, in *structpb.Struct, req interface{}, coachField *types.CoachID) (types.CoachID, error) {
	if err := decode(in, req); err != nil {
		return "", err
	}
	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return identity.Resolve(ctx, *coachField)
}

func respond(msg interface{}) (*structpb.Struct, error) {
	out, err := encode(msg)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
