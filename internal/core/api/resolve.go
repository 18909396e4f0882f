package api

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/core/metrics"
	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

// ResolveAdjustments combines the coach's active rules for one client and
// product. Items, when given, also get their per-item totals.
func (s *RuleService) ResolveAdjustments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ResolveAdjustmentsRequest
	coach, err := s.decodeRequest(ctx, in, &req, &req.CoachID)
	if err != nil {
		return nil, toStatus(err)
	}

	category, err := types.ParseCategory(req.Category)
	if err != nil {
		return nil, toStatus(err)
	}
	profile, err := rules.ProfileFromMap(req.Profile)
	if err != nil {
		return nil, toStatus(err)
	}

	start := time.Now()
	active, err := s.store.ListActive(ctx, coach, category)
	if err != nil {
		return nil, toStatus(err)
	}

	res, err := s.rulesEngine.Resolve(req.ProductID, category, profile, active)
	if err != nil {
		return nil, toStatus(err)
	}
	metrics.RecordResolution(category, res.Matched(), len(res.Contradictions), time.Since(start).Seconds())

	return respond(NewResolveResponse(res, req.Items))
}
