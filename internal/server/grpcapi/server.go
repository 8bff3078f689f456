package grpcapi

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// Server implements MapServiceServer on top of a mapservice.Service.
type Server struct {
	svc *mapservice.Service
}

// NewServer creates a new map server
func NewServer(svc *mapservice.Service) *Server {
	return &Server{svc: svc}
}

// decode reads the request map using the x-map-format header, if any.
func (s *Server) decode(ctx context.Context, in *wrapperspb.BytesValue) (*awmap.Map, error) {
	f := mapservice.FormatAuto
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(HeaderMapFormat); len(v) > 0 {
			parsed, err := mapservice.ParseFormat(v[0])
			if err != nil {
				return nil, toStatus(err)
			}
			f = parsed
		}
	}
	m, err := s.svc.Decode(ctx, f, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return m, nil
}

// ToAWBW converts map bytes to AWBW CSV
func (s *Server) ToAWBW(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	m, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Encode(ctx, m, mapservice.FormatAWBW)
	if err != nil {
		return nil, toStatus(err)
	}
	setTitle(ctx, m)
	return wrapperspb.String(string(out)), nil
}

// ToAWS converts map bytes to an AWS file
func (s *Server) ToAWS(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	m, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	out, err := s.svc.Encode(ctx, m, mapservice.FormatAWS)
	if err != nil {
		return nil, toStatus(err)
	}
	setTitle(ctx, m)
	return wrapperspb.Bytes(out), nil
}

// RenderMinimap renders map bytes to an image
func (s *Server) RenderMinimap(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	m, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	img, err := s.svc.Render(ctx, m)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := grpc.SetHeader(ctx, metadata.Pairs(HeaderImageFormat, string(img.Format))); err != nil {
		log.Debug().Err(err).Msg("Could not set image format header")
	}
	return wrapperspb.Bytes(img.Data), nil
}

// Summarize describes map bytes without returning the grid
func (s *Server) Summarize(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	m, err := s.decode(ctx, in)
	if err != nil {
		return nil, err
	}
	return summaryStruct(m, nil)
}

// FetchAWBW loads a map from AWBW by id
func (s *Server) FetchAWBW(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if in.GetValue() <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "map id must be positive, got %d", in.GetValue())
	}
	m, err := s.svc.FetchAWBW(ctx, int(in.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return summaryStruct(m, map[string]any{"awbw_csv": awbw.EncodeCSV(m)})
}

func setTitle(ctx context.Context, m *awmap.Map) {
	if m.Title == "" {
		return
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(HeaderMapTitle, m.Title))
}

// summaryStruct converts the map summary to a Struct through its JSON form
// and merges extra fields into it.
func summaryStruct(m *awmap.Map, extra map[string]any) (*structpb.Struct, error) {
	b, err := json.Marshal(m.Summary())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode summary: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode summary: %v", err)
	}
	for k, v := range extra {
		fields[k] = v
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode summary: %v", err)
	}
	return st, nil
}

// toStatus maps map error kinds to gRPC codes, keeping the message.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}

// Code returns the gRPC code for a map error.
func Code(err error) codes.Code {
	switch {
	case errors.Is(err, awmap.ErrMapNotFound):
		return codes.NotFound
	case errors.Is(err, awmap.ErrBadFormat),
		errors.Is(err, awmap.ErrDimensionMismatch),
		errors.Is(err, awmap.ErrInvalidTerrain),
		errors.Is(err, awmap.ErrInvalidUnit),
		errors.Is(err, mapservice.ErrUnsupportedFormat):
		return codes.InvalidArgument
	case errors.Is(err, awmap.ErrRenderFailure):
		return codes.Internal
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Unknown
}

var _ MapServiceServer = (*Server)(nil)
