package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type contextKey string

const shopIDKey contextKey = "shop_id"

// ShopIDHeader is the metadata key the gateway forwards the caller's shop in.
const ShopIDHeader = "x-shop-id"

func WithShopID(ctx context.Context, shopID string) context.Context {
	return context.WithValue(ctx, shopIDKey, shopID)
}

// GetShopID returns the shop the request acts on behalf of, or "" if none was sent.
func GetShopID(ctx context.Context) string {
	if val, ok := ctx.Value(shopIDKey).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(ShopIDHeader); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
