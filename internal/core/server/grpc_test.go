package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/coachkit/rulekeeper/internal/core/api"
	"github.com/coachkit/rulekeeper/internal/core/config"
	"github.com/coachkit/rulekeeper/internal/core/identity"
	"github.com/coachkit/rulekeeper/internal/core/metrics"
)

// echoService answers ListRules with what the interceptors put in the context.
type echoService struct {
	api.RuleServiceServer
}

func (echoService) ListRules(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	_, hasDeadline := ctx.Deadline()
	return structpb.NewStruct(map[string]interface{}{
		"coach":        string(identity.CoachIDFromContext(ctx)),
		"has_deadline": hasDeadline,
	})
}

func (echoService) DeleteRule(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.NotFound, "rule not found")
}

func startTestServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	cfg := config.DefaultRuleAPIConfig()
	cfg.MetricsAddr = ""

	srv, err := NewGRPCServer(cfg, echoService{}, zerolog.Nop())
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNewGRPCServer_NilDependencies(t *testing.T) {
	_, err := NewGRPCServer(nil, echoService{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewGRPCServer(config.DefaultRuleAPIConfig(), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestGRPCServer_Health(t *testing.T) {
	conn := startTestServer(t)
	client := grpc_health_v1.NewHealthClient(conn)

	for _, service := range []string{"", api.ServiceName} {
		resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus(), "service %q", service)
	}
}

func TestGRPCServer_InterceptorChain(t *testing.T) {
	conn := startTestServer(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), identity.MetadataKey, "coach-7")
	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(ctx, api.FullMethod("ListRules"), &structpb.Struct{}, out))

	assert.Equal(t, "coach-7", out.GetFields()["coach"].GetStringValue())
	assert.True(t, out.GetFields()["has_deadline"].GetBoolValue())
}

func TestGRPCServer_RecordsRequests(t *testing.T) {
	conn := startTestServer(t)

	err := conn.Invoke(context.Background(), api.FullMethod("DeleteRule"), &structpb.Struct{}, new(structpb.Struct))
	assert.Equal(t, codes.NotFound, status.Code(err))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `rulekeeper_grpc_requests_total{code="NotFound",method="DeleteRule"}`)
}

func TestTimeoutInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("ListRules")}

	t.Run("applies timeout", func(t *testing.T) {
		interceptor := TimeoutInterceptor(50 * time.Millisecond)
		_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, _ interface{}) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("zero disables", func(t *testing.T) {
		interceptor := TimeoutInterceptor(0)
		_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, _ interface{}) (interface{}, error) {
			if _, ok := ctx.Deadline(); ok {
				return nil, errors.New("unexpected deadline")
			}
			return nil, nil
		})
		assert.NoError(t, err)
	})
}
