package driverrpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/NotrixInc/nx-equipment-driver/driverrpc"
)

type echoServer struct {
	driverrpc.UnimplementedDriverServer
}

func (echoServer) GetParameterDataSet(_ context.Context, in *driverrpc.GetParameterDataSetRequest) (*driverrpc.GetParameterDataReply, error) {
	return &driverrpc.GetParameterDataReply{
		ParameterData: []*driverrpc.ParameterData{{
			EquipmentId:  in.Equipment.Id,
			ParameterKey: in.ParameterSetKey,
			Value:        in.Equipment.IpAddress,
		}},
	}, nil
}

func dialBufconn(t *testing.T, srv driverrpc.DriverServer, opts ...grpc.ServerOption) driverrpc.DriverClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	driverrpc.RegisterDriverServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return driverrpc.NewDriverClient(conn)
}

func TestDriverClient_RoundTripsThroughJSONCodec(t *testing.T) {
	client := dialBufconn(t, echoServer{})

	reply, err := client.GetParameterDataSet(context.Background(), &driverrpc.GetParameterDataSetRequest{
		Equipment:       &driverrpc.Equipment{Id: 7, IpAddress: "10.0.0.5"},
		ParameterSetKey: "TemperatureData",
	})
	require.NoError(t, err)
	require.Len(t, reply.ParameterData, 1)
	assert.Equal(t, uint32(7), reply.ParameterData[0].EquipmentId)
	assert.Equal(t, "TemperatureData", reply.ParameterData[0].ParameterKey)
	assert.Equal(t, "10.0.0.5", reply.ParameterData[0].Value)
}

func TestDriverClient_UnimplementedMethod(t *testing.T) {
	client := dialBufconn(t, echoServer{})

	_, err := client.GetDriverStatus(context.Background(), &driverrpc.GetDriverStatusRequest{})
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestDriverServer_RunsInterceptor(t *testing.T) {
	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	client := dialBufconn(t, echoServer{}, grpc.UnaryInterceptor(interceptor))

	_, err := client.GetParameterDataSet(context.Background(), &driverrpc.GetParameterDataSetRequest{
		Equipment: &driverrpc.Equipment{Id: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "/nx.equipment.Driver/GetParameterDataSet", seen)
}
