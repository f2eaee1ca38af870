package goods

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, goods *model.Goods) error
	FindByID(ctx context.Context, id string) (*model.Goods, error)
	Search(ctx context.Context, p predicate.Predicate) ([]model.Goods, error)
	Update(ctx context.Context, goods *model.Goods) error
	// Delete removes the goods together with its attribute values and images.
	Delete(ctx context.Context, id string) error

	IsArticleUnique(ctx context.Context, article, excludeID string) (bool, error)

	// ReserveStock applies every delta or none. A delta that would drive stock
	// below zero fails with apperr.KindInvalidArgument, an unknown id with
	// apperr.KindNotFound.
	ReserveStock(ctx context.Context, deltas map[string]int) ([]model.Goods, error)
}

type ImageRepository interface {
	// Create stores the image. A main image demotes the goods' previous one.
	Create(ctx context.Context, image *model.GoodsImage) error
	FindByID(ctx context.Context, id string) (*model.GoodsImage, error)
	Search(ctx context.Context, p predicate.Predicate) ([]model.GoodsImage, error)
	Delete(ctx context.Context, id string) error
}
