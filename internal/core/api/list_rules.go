package api

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/types"
)

// ListRules returns the coach's rules in creation order.
func (s *RuleService) ListRules(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListRulesRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}

	var category types.Category
	if req.Category != "" {
		category, err = types.ParseCategory(req.Category)
		if err != nil {
			return nil, toStatus(err)
		}
	}

	stored, err := s.store.List(ctx, coach, category, req.IncludeInactive)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListRulesResponse{Rules: make([]RuleRecord, 0, len(stored))}
	for _, r := range stored {
		resp.Rules = append(resp.Rules, toRecord(r))
	}
	return respond(resp)
}
