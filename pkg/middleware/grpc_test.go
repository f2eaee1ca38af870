package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/auth"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/easybuy.catalog.v1.GoodsService/GetGoods"}

func TestContextInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(auth.ShopIDHeader, "shop-1"))

	var got string
	_, err := ContextInterceptor()(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		got = auth.GetShopID(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "shop-1", got)
}

func TestErrorInterceptor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"ok", nil, codes.OK},
		{"not found", apperr.NotFound("goods", "g1"), codes.NotFound},
		{"conflict", apperr.Conflict("article taken"), codes.AlreadyExists},
		{"invalid", apperr.InvalidArgument("price", "must be positive"), codes.InvalidArgument},
		{"internal", errors.New("connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ErrorInterceptor(logger.NewNop())(context.Background(), nil, info, func(context.Context, any) (any, error) {
				return "resp", tt.err
			})
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestErrorInterceptor_HidesInternalDetails(t *testing.T) {
	_, err := ErrorInterceptor(logger.NewNop())(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, apperr.Wrap(errors.New("pq: password authentication failed"), "find goods")
	})
	st, _ := status.FromError(err)
	assert.Equal(t, "internal error", st.Message())
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	chain := func(err error) {
		_, _ = MetricsInterceptor(m)(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
			return ErrorInterceptor(logger.NewNop())(ctx, req, info, func(context.Context, any) (any, error) {
				return nil, err
			})
		})
	}
	chain(nil)
	chain(apperr.NotFound("goods", "g1"))
	chain(apperr.NotFound("goods", "g2"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GrpcRequestsTotal.WithLabelValues(info.FullMethod, "OK")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GrpcRequestsTotal.WithLabelValues(info.FullMethod, "NotFound")))
}
