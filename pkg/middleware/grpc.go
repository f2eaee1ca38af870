package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/auth"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
)

// ContextInterceptor lifts the caller's shop id from metadata into the context.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if shopID := auth.GetShopID(ctx); shopID != "" {
			ctx = auth.WithShopID(ctx, shopID)
		}
		return handler(ctx, req)
	}
}

// ErrorInterceptor converts use case errors into gRPC statuses and logs
// everything that is not a client error.
func ErrorInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if apperr.KindOf(err) == apperr.KindInternal {
			log.Error("request failed", zap.String("method", info.FullMethod), zap.Error(err))
		}
		return nil, apperr.GRPCStatus(err)
	}
}

// MetricsInterceptor records request counts and latencies. It must run outside
// ErrorInterceptor so the recorded code is the final one.
func MetricsInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.GrpcRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		m.GrpcRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}
