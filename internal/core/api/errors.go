package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/core/identity"
	"github.com/coachkit/rulekeeper/internal/types"
)

// Error mapping:
//   Validation errors map to INVALID_ARGUMENT.
//   Unknown or foreign rule ids map to NOT_FOUND.
//   Critical conflicts map to FAILED_PRECONDITION with the report as detail.
//   The per-coach rule limit maps to RESOURCE_EXHAUSTED.
//   Database errors map to UNAVAILABLE.
//   Context timeouts map to DEADLINE_EXCEEDED.

var errInvalidRequest = errors.New("invalid request")

var invalidArgument = []error{
	errInvalidRequest,
	identity.ErrMissingCoach,
	identity.ErrCoachMismatch,
	types.ErrInvalidRule,
	types.ErrMalformedRange,
	types.ErrAdjustmentOutOfRange,
	types.ErrFieldNotApplicable,
	types.ErrEmptyName,
	types.ErrUnknownCategory,
	types.ErrUnknownGender,
	types.ErrUnknownActivityLevel,
	types.ErrInvalidProfile,
	types.ErrInvalidRuleID,
}

// toStatus converts a domain error into a gRPC status error.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, types.ErrRuleNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrCriticalConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, types.ErrRuleLimitExceeded):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, types.ErrStorage):
		return status.Error(codes.Unavailable, err.Error())
	}

	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// conflictStatus is the FAILED_PRECONDITION returned when a critical conflict
// blocks a write. The full report travels as a Struct detail.
func conflictStatus(report *CheckRuleResponse) error {
	st := status.New(codes.FailedPrecondition, types.ErrCriticalConflict.Error())

	detail, err := encode(report)
	if err != nil {
		return st.Err()
	}
	withDetail, err := st.WithDetails(detail)
	if err != nil {
		return st.Err()
	}
	return withDetail.Err()
}

// ConflictReportFromError extracts the report attached to a blocked write.
// Returns nil when err carries none.
func ConflictReportFromError(err error) *CheckRuleResponse {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		doc, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		report := new(CheckRuleResponse)
		if decode(doc, report) == nil {
			return report
		}
	}
	return nil
}
