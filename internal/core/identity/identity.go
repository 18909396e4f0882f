// Package identity carries the calling coach through gRPC requests.
//
// Callers are trusted: an upstream gateway authenticates users and forwards
// the coach id either in the x-coach-id metadata header or in the request
// body. This package only moves that id into the request context.
package identity

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/coachkit/rulekeeper/internal/types"
)

// MetadataKey is the gRPC metadata header holding the coach id.
const MetadataKey = "x-coach-id"

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

// coachIDKey is the context key for storing the calling coach.
const coachIDKey = contextKey("coach_id")

// WithCoachID returns a context carrying coach.
func WithCoachID(ctx context.Context, coach types.CoachID) context.Context {
	return context.WithValue(ctx, coachIDKey, coach)
}

// CoachIDFromContext extracts the coach id from context.
// Returns empty string if not found.
func CoachIDFromContext(ctx context.Context) types.CoachID {
	if coach, ok := ctx.Value(coachIDKey).(types.CoachID); ok {
		return coach
	}
	return ""
}

// Resolve picks the coach a request acts for. An explicit id from the
// request body wins; it must agree with the metadata header when both are set.
func Resolve(ctx context.Context, explicit types.CoachID) (types.CoachID, error) {
	explicit = types.CoachID(strings.TrimSpace(string(explicit)))
	fromHeader := CoachIDFromContext(ctx)

	switch {
	case explicit == "" && fromHeader == "":
		return "", ErrMissingCoach
	case explicit == "":
		return fromHeader, nil
	case fromHeader != "" && fromHeader != explicit:
		return "", ErrCoachMismatch
	default:
		return explicit, nil
	}
}

// UnaryInterceptor returns a gRPC interceptor that copies the x-coach-id
// header into the context. Requests without the header pass through; the
// handler decides whether a coach is required.
func UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return handler(ctx, req)
		}

		values := md.Get(MetadataKey)
		if len(values) == 0 {
			return handler(ctx, req)
		}
		if len(values) > 1 {
			return nil, status.Error(codes.InvalidArgument, ErrDuplicateHeader.Error())
		}

		coach := strings.TrimSpace(values[0])
		if coach == "" {
			return handler(ctx, req)
		}
		return handler(WithCoachID(ctx, types.CoachID(coach)), req)
	}
}
