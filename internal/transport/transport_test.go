package transport

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
)

type payload struct {
	ID    string   `json:"id" validate:"required"`
	Price *float64 `json:"price,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func TestEncodeDecode(t *testing.T) {
	price := 12.5
	in := payload{ID: "g1", Price: &price, Tags: []string{"a", "b"}}

	msg, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, "g1", msg.Fields["id"].GetStringValue())

	var out payload
	require.NoError(t, Decode(msg, &out))
	assert.Equal(t, in, out)
}

func TestEncodeRejectsNonObject(t *testing.T) {
	_, err := Encode([]string{"a"})
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
}

func TestDecodeTypeMismatch(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]any{"id": 42.0})
	require.NoError(t, err)

	var out payload
	assert.True(t, apperr.IsKind(Decode(msg, &out), apperr.KindInvalidArgument))
}

func TestBindValidates(t *testing.T) {
	var out ID
	err := Bind(&structpb.Struct{}, &out)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestMethodRunsInterceptor(t *testing.T) {
	desc := Method("GoodsService", "GetGoods", func(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return req, nil
	})
	assert.Equal(t, "GetGoods", desc.MethodName)

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	dec := func(v any) error {
		v.(*structpb.Struct).Fields = map[string]*structpb.Value{"id": structpb.NewStringValue("g1")}
		return nil
	}

	resp, err := desc.Handler(nil, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, "/easybuy.catalog.v1.GoodsService/GetGoods", seen)
	assert.Equal(t, "g1", resp.(*structpb.Struct).Fields["id"].GetStringValue())
}

type echoServer struct{}

func (echoServer) ServiceDesc() *grpc.ServiceDesc {
	return Service("EchoService",
		Method("EchoService", "Echo", func(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return req, nil
		}),
	)
}

func TestRegisterPublishesDescriptor(t *testing.T) {
	require.NoError(t, Register(grpc.NewServer(), echoServer{}))
	// registering again, as every test server does, is fine
	require.NoError(t, Register(grpc.NewServer(), echoServer{}))

	d, err := protoregistry.GlobalFiles.FindDescriptorByName(protoreflect.FullName(FullName("EchoService")))
	require.NoError(t, err)
	svc, ok := d.(protoreflect.ServiceDescriptor)
	require.True(t, ok)

	m := svc.Methods().ByName("Echo")
	require.NotNil(t, m)
	assert.Equal(t, protoreflect.FullName("google.protobuf.Struct"), m.Input().FullName())
	assert.Equal(t, protoreflect.FullName("google.protobuf.Struct"), m.Output().FullName())
}

func TestReflectionResolvesServices(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	require.NoError(t, Register(srv, echoServer{}))
	reflection.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: FullName("EchoService"),
		},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)

	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	require.NotEmpty(t, files)

	var found bool
	for _, raw := range files {
		var fd descriptorpb.FileDescriptorProto
		require.NoError(t, proto.Unmarshal(raw, &fd))
		for _, svc := range fd.GetService() {
			if svc.GetName() == "EchoService" {
				found = true
				assert.Equal(t, "Echo", svc.GetMethod()[0].GetName())
			}
		}
	}
	assert.True(t, found)
}
