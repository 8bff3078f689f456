package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// NewGRPCServer builds a gRPC server with the map service, the health
// service and, if asked, reflection. The health server is returned so the
// caller can flip it to NOT_SERVING on shutdown.
func NewGRPCServer(svc *mapservice.Service, enableReflection bool) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(ServerOptions()...)
	RegisterMapServiceServer(s, NewServer(svc))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(s)
	}
	return s, healthServer
}

// SetServing flips both health entries.
func SetServing(h *health.Server, serving bool) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if !serving {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus("", st)
	h.SetServingStatus(ServiceName, st)
}
