package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "rulekeeper.v1.RuleService"

// RuleServiceServer is the server API for the rule service.
//
// Messages are google.protobuf.Struct documents whose shape is given by the
// request and response types in messages.go, so any gRPC client can call the
// service without generated stubs.
type RuleServiceServer interface {
	CheckRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRuleActive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRules(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveAdjustments(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RuleServiceDesc is the grpc.ServiceDesc for the rule service.
var RuleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RuleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckRule", Handler: unaryHandler("CheckRule", RuleServiceServer.CheckRule)},
		{MethodName: "SaveRule", Handler: unaryHandler("SaveRule", RuleServiceServer.SaveRule)},
		{MethodName: "SetRuleActive", Handler: unaryHandler("SetRuleActive", RuleServiceServer.SetRuleActive)},
		{MethodName: "DeleteRule", Handler: unaryHandler("DeleteRule", RuleServiceServer.DeleteRule)},
		{MethodName: "ListRules", Handler: unaryHandler("ListRules", RuleServiceServer.ListRules)},
		{MethodName: "ResolveAdjustments", Handler: unaryHandler("ResolveAdjustments", RuleServiceServer.ResolveAdjustments)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rulekeeper/v1/rule_service",
}

// RegisterRuleServiceServer registers srv on s.
func RegisterRuleServiceServer(s grpc.ServiceRegistrar, srv RuleServiceServer) {
	s.RegisterService(&RuleServiceDesc, srv)
}

// FullMethod returns the gRPC path of a rule service method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type structCall func(RuleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a Struct-in, Struct-out method to grpc.MethodHandler.
func unaryHandler(method string, call structCall) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RuleServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RuleServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RuleServiceClient calls the rule service with typed messages.
type RuleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRuleServiceClient creates a client over an established connection.
func NewRuleServiceClient(cc grpc.ClientConnInterface) *RuleServiceClient {
	return &RuleServiceClient{cc: cc}
}

func (c *RuleServiceClient) CheckRule(ctx context.Context, req *CheckRuleRequest, opts ...grpc.CallOption) (*CheckRuleResponse, error) {
	out := new(CheckRuleResponse)
	return out, c.invoke(ctx, "CheckRule", req, out, opts...)
}

func (c *RuleServiceClient) SaveRule(ctx context.Context, req *SaveRuleRequest, opts ...grpc.CallOption) (*SaveRuleResponse, error) {
	out := new(SaveRuleResponse)
	return out, c.invoke(ctx, "SaveRule", req, out, opts...)
}

func (c *RuleServiceClient) SetRuleActive(ctx context.Context, req *SetRuleActiveRequest, opts ...grpc.CallOption) (*SetRuleActiveResponse, error) {
	out := new(SetRuleActiveResponse)
	return out, c.invoke(ctx, "SetRuleActive", req, out, opts...)
}

func (c *RuleServiceClient) DeleteRule(ctx context.Context, req *DeleteRuleRequest, opts ...grpc.CallOption) (*DeleteRuleResponse, error) {
	out := new(DeleteRuleResponse)
	return out, c.invoke(ctx, "DeleteRule", req, out, opts...)
}

func (c *RuleServiceClient) ListRules(ctx context.Context, req *ListRulesRequest, opts ...grpc.CallOption) (*ListRulesResponse, error) {
	out := new(ListRulesResponse)
	return out, c.invoke(ctx, "ListRules", req, out, opts...)
}

func (c *RuleServiceClient) ResolveAdjustments(ctx context.Context, req *ResolveAdjustmentsRequest, opts ...grpc.CallOption) (*ResolveAdjustmentsResponse, error) {
	out := new(ResolveAdjustmentsResponse)
	return out, c.invoke(ctx, "ResolveAdjustments", req, out, opts...)
}

func (c *RuleServiceClient) invoke(ctx context.Context, method string, req, out interface{}, opts ...grpc.CallOption) error {
	in, err := encode(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, reply, opts...); err != nil {
		return err
	}
	return decode(reply, out)
}
