package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "trenchturn.v1alpha1.TurnService"

// Full method names
const (
	TurnServiceStartSessionMethod = "/" + ServiceName + "/StartSession"
	TurnServiceCommitMethod       = "/" + ServiceName + "/Commit"
	TurnServiceMarkReadyMethod    = "/" + ServiceName + "/MarkReady"
	TurnServiceGetSnapshotMethod  = "/" + ServiceName + "/GetSnapshot"
	TurnServiceListEventsMethod   = "/" + ServiceName + "/ListEvents"
	TurnServiceEndSessionMethod   = "/" + ServiceName + "/EndSession"
)

// TurnServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents whose fields are listed on each handler.
type TurnServiceServer interface {
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Commit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkReady(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EndSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterTurnServiceServer registers srv on s
func RegisterTurnServiceServer(s grpc.ServiceRegistrar, srv TurnServiceServer) {
	s.RegisterService(&TurnServiceDesc, srv)
}

type unaryMethod func(TurnServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TurnServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TurnServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TurnServiceDesc is the grpc.ServiceDesc for TurnService
var TurnServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TurnServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartSession", Handler: unaryHandler(TurnServiceStartSessionMethod, TurnServiceServer.StartSession)},
		{MethodName: "Commit", Handler: unaryHandler(TurnServiceCommitMethod, TurnServiceServer.Commit)},
		{MethodName: "MarkReady", Handler: unaryHandler(TurnServiceMarkReadyMethod, TurnServiceServer.MarkReady)},
		{MethodName: "GetSnapshot", Handler: unaryHandler(TurnServiceGetSnapshotMethod, TurnServiceServer.GetSnapshot)},
		{MethodName: "ListEvents", Handler: unaryHandler(TurnServiceListEventsMethod, TurnServiceServer.ListEvents)},
		{MethodName: "EndSession", Handler: unaryHandler(TurnServiceEndSessionMethod, TurnServiceServer.EndSession)},
	},
	Streams: []grpc.StreamDesc{},
}

// TurnServiceClient is the client API for TurnService
type TurnServiceClient interface {
	StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Commit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	MarkReady(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	EndSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type turnServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTurnServiceClient creates a client over cc
func NewTurnServiceClient(cc grpc.ClientConnInterface) TurnServiceClient {
	return &turnServiceClient{cc: cc}
}

func (c *turnServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *turnServiceClient) StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceStartSessionMethod, in, opts)
}

func (c *turnServiceClient) Commit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceCommitMethod, in, opts)
}

func (c *turnServiceClient) MarkReady(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceMarkReadyMethod, in, opts)
}

func (c *turnServiceClient) GetSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceGetSnapshotMethod, in, opts)
}

func (c *turnServiceClient) ListEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceListEventsMethod, in, opts)
}

func (c *turnServiceClient) EndSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TurnServiceEndSessionMethod, in, opts)
}
