package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/auth"
	catdto "github.com/ValentynKoval/easybuy-catalog-service/internal/category/dto"
	catrepo "github.com/ValentynKoval/easybuy-catalog-service/internal/category/repository"
	catuc "github.com/ValentynKoval/easybuy-catalog-service/internal/category/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/repository"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport/transporttest"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

func TestGoodsService(t *testing.T) {
	db := memory.NewDB()
	catRepo := catrepo.NewMemoryRepository(db)
	categories := catuc.NewCategoryUseCase(catRepo, nil, logger.NewNop(), nil)
	uc := usecase.NewGoodsUseCase(usecase.Deps{
		Repo:       repository.NewMemoryRepository(db),
		Images:     repository.NewMemoryImageRepository(db),
		Categories: catRepo,
		Closures:   categories,
		Logger:     logger.NewNop(),
	})
	conn := transporttest.Dial(t, NewGoodsHandler(uc, logger.NewNop()))

	ctx := metadata.AppendToOutgoingContext(context.Background(), auth.ShopIDHeader, "shop-7")
	call := func(method string, in, out any) error {
		return transport.Invoke(ctx, conn, ServiceName, method, in, out)
	}

	el, err := categories.CreateCategory(ctx, &catdto.CreateCategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	mi, err := categories.CreateCategory(ctx, &catdto.CreateCategoryInput{Name: "Mice", ParentID: &el.ID})
	require.NoError(t, err)

	var created dto.GoodsResponse
	require.NoError(t, call("CreateGoods", dto.CreateGoodsInput{Article: "M-1", Name: "Mouse", Price: 19.99, Stock: 4, CategoryID: &mi.ID}, &created))
	assert.Equal(t, "shop-7", created.Goods.ShopID)
	assert.InDelta(t, 19.99, created.Goods.Price, 1e-9)

	err = call("CreateGoods", dto.CreateGoodsInput{Article: "M-1", Name: "Dup"}, nil)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	var found dto.GoodsListResponse
	require.NoError(t, call("SearchGoods", dto.SearchCriteria{CategoryID: &el.ID, IncludeSubcategories: true}, &found))
	require.Len(t, found.Goods, 1)
	assert.Equal(t, created.Goods.ID, found.Goods[0].ID)

	lo, hi := 50.0, 10.0
	err = call("SearchGoods", dto.SearchCriteria{PriceMin: &lo, PriceMax: &hi}, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var img dto.ImageResponse
	require.NoError(t, call("CreateGoodsImage", dto.CreateImageInput{GoodsID: created.Goods.ID, URL: "https://cdn.example.com/m1.png", IsMain: true}, &img))

	var images dto.ImageListResponse
	require.NoError(t, call("SearchGoodsImages", dto.ImageFilter{GoodsID: &created.Goods.ID}, &images))
	require.Len(t, images.Images, 1)
	assert.True(t, images.Images[0].IsMain)

	require.NoError(t, call("DeleteGoodsImage", transport.ID{ID: img.Image.ID}, nil))
	require.NoError(t, call("DeleteGoods", transport.ID{ID: created.Goods.ID}, nil))

	err = call("GetGoods", transport.ID{ID: created.Goods.ID}, nil)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
