// Package transporttest runs handlers on an in-memory gRPC server.
package transporttest

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/middleware"
)

// Dial serves the handlers with the production interceptor chain and returns
// a connected client. Both are torn down with the test.
func Dial(t *testing.T, servers ...transport.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.MetricsInterceptor(metrics.New(prometheus.NewRegistry())),
		middleware.ContextInterceptor(),
		middleware.ErrorInterceptor(logger.NewNop()),
	))
	require.NoError(t, transport.Register(srv, servers...))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return conn
}
