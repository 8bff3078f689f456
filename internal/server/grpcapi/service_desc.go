// Package grpcapi serves awmap.v1.MapService. Messages are protobuf
// well-known wrapper types, so the service needs no generated code; the
// service descriptor and client below are written by hand.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "awmap.v1.MapService"

// Full method names.
const (
	MethodToAWBW        = "/" + ServiceName + "/ToAWBW"
	MethodToAWS         = "/" + ServiceName + "/ToAWS"
	MethodRenderMinimap = "/" + ServiceName + "/RenderMinimap"
	MethodSummarize     = "/" + ServiceName + "/Summarize"
	MethodFetchAWBW     = "/" + ServiceName + "/FetchAWBW"
)

// Metadata keys.
const (
	// HeaderMapFormat on a request names the input format; absent means detect.
	HeaderMapFormat   = "x-map-format"
	HeaderImageFormat = "x-image-format"
	HeaderRequestID   = "x-request-id"
	HeaderMapTitle    = "x-map-title"
)

// MapServiceServer is the server API for awmap.v1.MapService.
type MapServiceServer interface {
	// ToAWBW converts map bytes in any readable format to AWBW CSV.
	ToAWBW(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	// ToAWS converts map bytes in any readable format to an AWS file.
	ToAWS(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	// RenderMinimap returns PNG or GIF bytes; the format is sent in the
	// x-image-format response header.
	RenderMinimap(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Summarize(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	// FetchAWBW loads an AWBW map id and returns its summary and CSV.
	FetchAWBW(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
}

// RegisterMapServiceServer registers srv on s.
func RegisterMapServiceServer(s grpc.ServiceRegistrar, srv MapServiceServer) {
	s.RegisterService(&MapService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, newReq func() *Req, call func(MapServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	name := method[len(ServiceName)+2:]
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MapServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(MapServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newBytes() *wrapperspb.BytesValue { return &wrapperspb.BytesValue{} }
func newInt64() *wrapperspb.Int64Value { return &wrapperspb.Int64Value{} }

// MapService_ServiceDesc is the grpc.ServiceDesc for awmap.v1.MapService.
var MapService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MapServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodToAWBW, newBytes, MapServiceServer.ToAWBW),
		unaryHandler(MethodToAWS, newBytes, MapServiceServer.ToAWS),
		unaryHandler(MethodRenderMinimap, newBytes, MapServiceServer.RenderMinimap),
		unaryHandler(MethodSummarize, newBytes, MapServiceServer.Summarize),
		unaryHandler(MethodFetchAWBW, newInt64, MapServiceServer.FetchAWBW),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "awmap/v1/map_service.proto",
}

// MapServiceClient is the client API for awmap.v1.MapService.
type MapServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMapServiceClient(cc grpc.ClientConnInterface) *MapServiceClient {
	return &MapServiceClient{cc: cc}
}

func (c *MapServiceClient) ToAWBW(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MethodToAWBW, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MapServiceClient) ToAWS(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodToAWS, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MapServiceClient) RenderMinimap(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodRenderMinimap, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MapServiceClient) Summarize(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodSummarize, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MapServiceClient) FetchAWBW(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodFetchAWBW, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
