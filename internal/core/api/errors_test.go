package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coachkit/rulekeeper/internal/types"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"validation", fmt.Errorf("%w: bad", types.ErrMalformedRange), codes.InvalidArgument},
		{"profile", fmt.Errorf("%w: age", types.ErrInvalidProfile), codes.InvalidArgument},
		{"rule id", fmt.Errorf("%w: \"r1\"", types.ErrInvalidRuleID), codes.InvalidArgument},
		{"not found", fmt.Errorf("%w: r1", types.ErrRuleNotFound), codes.NotFound},
		{"critical", types.ErrCriticalConflict, codes.FailedPrecondition},
		{"limit", types.ErrRuleLimitExceeded, codes.ResourceExhausted},
		{"storage", fmt.Errorf("%w: insert: %w", types.ErrStorage, errors.New("disk full")), codes.Unavailable},
		{"storage deadline", fmt.Errorf("%w: get: %w", types.ErrStorage, context.DeadlineExceeded), codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"already status", status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
		{"unknown", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Code(toStatus(tt.err))
			if got != tt.want {
				t.Errorf("toStatus(%v) code = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConflictReportFromError(t *testing.T) {
	report := &CheckRuleResponse{
		Conflicts: []types.ConflictEntry{{
			OtherRuleID: "r1",
			Kind:        types.ConflictCritical,
			Reasons:     []string{"identical criteria"},
		}},
		Blocked:                 true,
		SpecificityTableVersion: "v1",
	}

	err := conflictStatus(report)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("conflictStatus() code = %v, want %v", status.Code(err), codes.FailedPrecondition)
	}

	got := ConflictReportFromError(err)
	if got == nil {
		t.Fatal("ConflictReportFromError() = nil, want report")
	}
	if len(got.Conflicts) != 1 || got.Conflicts[0].OtherRuleID != "r1" || got.Conflicts[0].Kind != types.ConflictCritical {
		t.Errorf("ConflictReportFromError() = %+v, want one critical entry for r1", got)
	}

	if ConflictReportFromError(errors.New("plain")) != nil {
		t.Error("ConflictReportFromError(plain error) != nil")
	}
}
