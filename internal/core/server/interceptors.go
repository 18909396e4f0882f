package server

import (
	"context"
	"path"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coachkit/rulekeeper/internal/core/metrics"
)

// ObservabilityInterceptor logs every call and counts it by method and code.
// Client errors log at info, server errors at error.
func ObservabilityInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		method := path.Base(info.FullMethod)
		metrics.RecordRequest(method, code)

		event := logger.Debug()
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unavailable, codes.Unknown, codes.DataLoss:
			event = logger.Error().Err(err)
		default:
			event = logger.Info().Err(err)
		}
		event.
			Str("method", method).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("Handled request")

		return resp, err
	}
}

// TimeoutInterceptor bounds each call by timeout unless the caller set a
// tighter deadline. A zero timeout disables the bound.
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}
