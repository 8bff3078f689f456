package grpcapi

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// RequestIDInterceptor takes the caller's x-request-id or makes a new one,
// attaches it to the context and echoes it in the response header.
func RequestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(HeaderRequestID); len(v) > 0 {
			id = v[0]
		}
	}
	if id == "" {
		id = mapservice.NewRequestID()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(HeaderRequestID, id))
	return handler(mapservice.WithRequestID(ctx, id), req)
}

// LoggingInterceptor logs all unary RPC calls
func LoggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	ev := log.Info()
	if code == codes.Internal || code == codes.Unknown {
		ev = log.Error()
	}
	ev.Str("method", info.FullMethod).
		Str("request_id", mapservice.RequestID(ctx)).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")

	return resp, err
}

// RecoveryInterceptor catches panics and returns proper gRPC errors
func RecoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()

	return handler(ctx, req)
}

// ServerOptions returns the interceptor chain used by the map server. The
// request id runs first so the logger sees it.
func ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RequestIDInterceptor,
			LoggingInterceptor,
			RecoveryInterceptor,
		),
	}
}
