package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/auth"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/cache"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/indexer"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/validation"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

type Deps struct {
	Repo       goods.Repository
	Images     goods.ImageRepository
	Categories category.Repository
	Closures   category.ClosureResolver
	Cache      *cache.Cache     // Optional
	Indexer    *indexer.Indexer // Optional
	Logger     logger.ZapLogger
}

type goodsUseCase struct {
	repo       goods.Repository
	images     goods.ImageRepository
	categories category.Repository
	closures   category.ClosureResolver
	cache      *cache.Cache
	indexer    *indexer.Indexer
	logger     logger.ZapLogger
}

func NewGoodsUseCase(d Deps) goods.UseCase {
	return &goodsUseCase{
		repo:       d.Repo,
		images:     d.Images,
		categories: d.Categories,
		closures:   d.Closures,
		cache:      d.Cache,
		indexer:    d.Indexer,
		logger:     d.Logger,
	}
}

func (uc *goodsUseCase) CreateGoods(ctx context.Context, input *dto.CreateGoodsInput) (*model.Goods, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	shopID := input.ShopID
	if shopID == "" {
		shopID = auth.GetShopID(ctx)
	}
	if shopID == "" {
		return nil, apperr.InvalidArgument("shop_id", "is required")
	}

	if err := uc.checkArticle(ctx, input.Article, ""); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.GoodsStatusActive
	}
	discountStatus := input.DiscountStatus
	if discountStatus == "" {
		discountStatus = model.DiscountStatusNone
	}

	now := time.Now()
	g := &model.Goods{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Article:        input.Article,
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		Stock:          input.Stock,
		Rating:         input.Rating,
		ShopID:         shopID,
		CategoryID:     input.CategoryID,
		Status:         status,
		DiscountStatus: discountStatus,
		Discount:       input.Discount,
	}

	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, apperr.Wrap(err, "create goods")
	}
	uc.cache.Evict(ctx, cache.RegionGoods, cache.RegionGoodsSearch)
	uc.indexer.Upsert(*g)

	return g, nil
}

func (uc *goodsUseCase) GetGoods(ctx context.Context, id string) (*model.Goods, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionGoods, cache.Key("getGoods", id),
		func(ctx context.Context) (*model.Goods, error) {
			return uc.mustFind(ctx, id)
		})
}

func (uc *goodsUseCase) SearchGoods(ctx context.Context, criteria *dto.SearchCriteria) ([]model.Goods, error) {
	if criteria == nil {
		criteria = &dto.SearchCriteria{}
	}
	if err := validation.Struct(criteria); err != nil {
		return nil, err
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	key := *criteria
	if key.CategoryIDs != nil {
		key.CategoryIDs = append([]string{}, key.CategoryIDs...)
		sort.Strings(key.CategoryIDs)
	}

	return cache.Fetch(ctx, uc.cache, cache.RegionGoodsSearch, cache.Key("searchGoods", key),
		func(ctx context.Context) ([]model.Goods, error) {
			p, err := goods.BuildPredicate(ctx, criteria, uc.closures)
			if err != nil {
				return nil, err
			}
			uc.logger.Debug("searching goods", zap.Stringer("predicate", p))

			found, err := uc.repo.Search(ctx, p)
			return found, apperr.Wrap(err, "search goods")
		})
}

func (uc *goodsUseCase) UpdateGoods(ctx context.Context, input *dto.UpdateGoodsInput) (*model.Goods, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	g, err := uc.mustFind(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if g.Article != input.Article {
		if err := uc.checkArticle(ctx, input.Article, g.ID); err != nil {
			return nil, err
		}
	}
	if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	g.Article = input.Article
	g.Name = input.Name
	g.Description = input.Description
	g.Price = input.Price
	g.Stock = input.Stock
	g.Rating = input.Rating
	g.CategoryID = input.CategoryID
	g.Status = input.Status
	g.DiscountStatus = input.DiscountStatus
	g.Discount = input.Discount
	g.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, apperr.Wrap(err, "update goods")
	}
	uc.cache.Evict(ctx, cache.RegionGoods, cache.RegionGoodsSearch)
	uc.indexer.Upsert(*g)

	return g, nil
}

func (uc *goodsUseCase) DeleteGoods(ctx context.Context, id string) error {
	if _, err := uc.mustFind(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, "delete goods")
	}
	uc.cache.Evict(ctx,
		cache.RegionGoods,
		cache.RegionGoodsSearch,
		cache.RegionAttributeValues,
		cache.RegionGoodsImages,
	)
	uc.indexer.Remove(id)

	return nil
}

func (uc *goodsUseCase) AdjustStock(ctx context.Context, goodsID string, delta int) (*model.Goods, error) {
	updated, err := uc.reserve(ctx, map[string]int{goodsID: delta})
	if err != nil {
		return nil, err
	}
	return &updated[0], nil
}

func (uc *goodsUseCase) ReserveStock(ctx context.Context, adjustments []dto.StockAdjustment) error {
	deltas := make(map[string]int, len(adjustments))
	for _, a := range adjustments {
		if err := validation.Struct(a); err != nil {
			return err
		}
		deltas[a.GoodsID] += a.Delta
	}
	if len(deltas) == 0 {
		return nil
	}
	_, err := uc.reserve(ctx, deltas)
	return err
}

func (uc *goodsUseCase) reserve(ctx context.Context, deltas map[string]int) ([]model.Goods, error) {
	updated, err := uc.repo.ReserveStock(ctx, deltas)
	if err != nil {
		return nil, apperr.Wrap(err, "adjust stock")
	}
	uc.cache.Evict(ctx, cache.RegionGoods, cache.RegionGoodsSearch)
	uc.indexer.Upsert(updated...)
	return updated, nil
}

func (uc *goodsUseCase) SearchGoodsImages(ctx context.Context, filter *dto.ImageFilter) ([]model.GoodsImage, error) {
	if filter == nil {
		filter = &dto.ImageFilter{}
	}
	return cache.Fetch(ctx, uc.cache, cache.RegionGoodsImages, cache.Key("searchGoodsImages", filter),
		func(ctx context.Context) ([]model.GoodsImage, error) {
			p := predicate.True().And(predicate.Eq("goods_id", filter.GoodsID))
			images, err := uc.images.Search(ctx, p)
			return images, apperr.Wrap(err, "search goods images")
		})
}

func (uc *goodsUseCase) CreateGoodsImage(ctx context.Context, input *dto.CreateImageInput) (*model.GoodsImage, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if _, err := uc.mustFind(ctx, input.GoodsID); err != nil {
		return nil, err
	}

	now := time.Now()
	img := &model.GoodsImage{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		GoodsID:   input.GoodsID,
		URL:       input.URL,
		IsMain:    input.IsMain,
	}
	if err := uc.images.Create(ctx, img); err != nil {
		return nil, apperr.Wrap(err, "create goods image")
	}
	uc.cache.Evict(ctx, cache.RegionGoodsImages)

	return img, nil
}

func (uc *goodsUseCase) DeleteGoodsImage(ctx context.Context, id string) error {
	img, err := uc.images.FindByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "find goods image")
	}
	if img == nil {
		return apperr.NotFound("goods image", id)
	}

	if err := uc.images.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, "delete goods image")
	}
	uc.cache.Evict(ctx, cache.RegionGoodsImages)
	return nil
}

func (uc *goodsUseCase) mustFind(ctx context.Context, id string) (*model.Goods, error) {
	g, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "find goods")
	}
	if g == nil {
		return nil, apperr.NotFound("goods", id)
	}
	return g, nil
}

func (uc *goodsUseCase) checkArticle(ctx context.Context, article, excludeID string) error {
	unique, err := uc.repo.IsArticleUnique(ctx, article, excludeID)
	if err != nil {
		return apperr.Wrap(err, "check article")
	}
	if !unique {
		return apperr.Conflict(fmt.Sprintf("article %q already exists", article))
	}
	return nil
}

func (uc *goodsUseCase) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	c, err := uc.categories.FindByID(ctx, *id)
	if err != nil {
		return apperr.Wrap(err, "find category")
	}
	if c == nil {
		return apperr.NotFound("category", *id)
	}
	return nil
}
