package grpcapi

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/aws"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/session"
	"github.com/SirThane/BattleMaps-sub000/internal/testutil"
)

const bufSize = 1024 * 1024

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T) (*MapServiceClient, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(bufSize)

	fetcher := &testutil.StubFetcher{Bodies: map[int][]byte{
		99: testutil.AWBWResponse(t, "Fetched", [][]int{{1, 15}, {34, 42}}, nil),
	}}
	store := session.NewStore(time.Minute)
	s, _ := NewGRPCServer(mapservice.New(fetcher, store, nil), true)

	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		lis.Close()
		store.Close()
	})
	return NewMapServiceClient(conn), conn
}

func duelAWS(t *testing.T) []byte {
	t.Helper()
	b, err := aws.Encode(testutil.DuelMap(t))
	require.NoError(t, err)
	return b
}

func TestToAWBW(t *testing.T) {
	client, _ := setupTestServer(t)

	var header metadata.MD
	out, err := client.ToAWBW(context.Background(), wrapperspb.Bytes(duelAWS(t)), grpc.Header(&header))
	require.NoError(t, err)

	assert.Len(t, strings.Split(out.GetValue(), "\n"), 3)
	assert.Equal(t, []string{"Duel"}, header.Get(HeaderMapTitle))
	assert.Len(t, header.Get(HeaderRequestID), 1)
}

func TestToAWS_FromCSVWithFormatHeader(t *testing.T) {
	client, _ := setupTestServer(t)

	ctx := metadata.AppendToOutgoingContext(context.Background(), HeaderMapFormat, "csv")
	out, err := client.ToAWS(ctx, wrapperspb.Bytes([]byte("1,2,3\n34,1,1")))
	require.NoError(t, err)
	assert.True(t, aws.IsAWS(out.GetValue()))

	m, err := aws.Decode(out.GetValue())
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
}

func TestRenderMinimap(t *testing.T) {
	client, _ := setupTestServer(t)

	var header metadata.MD
	out, err := client.RenderMinimap(context.Background(), wrapperspb.Bytes(duelAWS(t)), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"gif"}, header.Get(HeaderImageFormat))
	assert.Equal(t, "GIF89a", string(out.GetValue()[:6]))
}

func TestSummarize(t *testing.T) {
	client, _ := setupTestServer(t)

	st, err := client.Summarize(context.Background(), wrapperspb.Bytes(duelAWS(t)))
	require.NoError(t, err)
	fields := st.AsMap()
	assert.Equal(t, "Duel", fields["title"])
	assert.Equal(t, float64(7), fields["width"])
	assert.Equal(t, []interface{}{"Orange Star", "Blue Moon"}, fields["playable"])
}

func TestFetchAWBW(t *testing.T) {
	client, _ := setupTestServer(t)

	st, err := client.FetchAWBW(context.Background(), wrapperspb.Int64(99))
	require.NoError(t, err)
	fields := st.AsMap()
	assert.Equal(t, "Fetched", fields["title"])
	assert.Equal(t, float64(99), fields["awbw_id"])
	assert.NotEmpty(t, fields["awbw_csv"])
}

func TestErrorCodes(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code codes.Code
		msg  string
	}{
		{
			name: "dimension mismatch",
			call: func() error {
				_, err := client.ToAWS(ctx, wrapperspb.Bytes([]byte("1,2,3\n1,2")))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "truncated aws",
			call: func() error {
				_, err := client.ToAWBW(ctx, wrapperspb.Bytes([]byte(aws.Magic+"\x02")))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "unknown format header",
			call: func() error {
				md := metadata.AppendToOutgoingContext(ctx, HeaderMapFormat, "png")
				_, err := client.ToAWS(md, wrapperspb.Bytes([]byte("1")))
				return err
			},
			code: codes.InvalidArgument,
		},
		{
			name: "missing awbw map",
			call: func() error {
				_, err := client.FetchAWBW(ctx, wrapperspb.Int64(5))
				return err
			},
			code: codes.NotFound,
			msg:  "No map matches given ID",
		},
		{
			name: "non positive id",
			call: func() error {
				_, err := client.FetchAWBW(ctx, wrapperspb.Int64(0))
				return err
			},
			code: codes.InvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			if tt.msg != "" {
				assert.Contains(t, st.Message(), tt.msg)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	_, conn := setupTestServer(t)

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestCode(t *testing.T) {
	assert.Equal(t, codes.NotFound, Code(awmap.ErrMapNotFound))
	assert.Equal(t, codes.InvalidArgument, Code(awmap.ErrInvalidUnit))
	assert.Equal(t, codes.Internal, Code(awmap.ErrRenderFailure))
	assert.Equal(t, codes.Canceled, Code(context.Canceled))
	assert.Equal(t, codes.Unknown, Code(assert.AnError))
}

func TestRecoveryInterceptor(t *testing.T) {
	_, err := RecoveryInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: MethodToAWS},
		func(context.Context, interface{}) (interface{}, error) { panic("boom") })
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
}

func TestRequestIDInterceptorKeepsCallerID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(HeaderRequestID, "abc"))
	var seen string
	_, err := RequestIDInterceptor(ctx, nil, &grpc.UnaryServerInfo{},
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			seen = mapservice.RequestID(ctx)
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, "abc", seen)
}
