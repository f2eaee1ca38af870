package goods

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

type UseCase interface {
	CreateGoods(ctx context.Context, input *dto.CreateGoodsInput) (*model.Goods, error)
	GetGoods(ctx context.Context, id string) (*model.Goods, error)
	SearchGoods(ctx context.Context, criteria *dto.SearchCriteria) ([]model.Goods, error)
	UpdateGoods(ctx context.Context, input *dto.UpdateGoodsInput) (*model.Goods, error)
	DeleteGoods(ctx context.Context, id string) error

	AdjustStock(ctx context.Context, goodsID string, delta int) (*model.Goods, error)
	ReserveStock(ctx context.Context, adjustments []dto.StockAdjustment) error

	SearchGoodsImages(ctx context.Context, filter *dto.ImageFilter) ([]model.GoodsImage, error)
	CreateGoodsImage(ctx context.Context, input *dto.CreateImageInput) (*model.GoodsImage, error)
	DeleteGoodsImage(ctx context.Context, id string) error
}
