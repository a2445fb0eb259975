// Package rpc exposes the arena as the gRPC service arena.v1.Arena. Requests
// and responses are google.protobuf.Struct documents carrying the same JSON
// shapes as the HTTP API.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "arena.v1.Arena"

// ArenaServer is the server side of arena.v1.Arena.
type ArenaServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DrawGacha(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BeginEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdvanceEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SettleEncounter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ArenaServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ArenaServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ArenaServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes arena.v1.Arena for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArenaServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", ArenaServer.Register),
		unary("DrawGacha", ArenaServer.DrawGacha),
		unary("BeginEncounter", ArenaServer.BeginEncounter),
		unary("AdvanceEncounter", ArenaServer.AdvanceEncounter),
		unary("SettleEncounter", ArenaServer.SettleEncounter),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "arena/v1/arena.proto",
}

func RegisterArenaServer(s grpc.ServiceRegistrar, srv ArenaServer) {
	s.RegisterService(&ServiceDesc, srv)
}
