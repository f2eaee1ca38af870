package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/cache"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/hierarchy"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/validation"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
)

type categoryUseCase struct {
	repo    category.Repository
	cache   *cache.Cache
	logger  logger.ZapLogger
	metrics *metrics.Metrics
}

// NewCategoryUseCase wires the category use case. c and m may be nil.
func NewCategoryUseCase(repo category.Repository, c *cache.Cache, log logger.ZapLogger, m *metrics.Metrics) category.UseCase {
	return &categoryUseCase{
		repo:    repo,
		cache:   c,
		logger:  log,
		metrics: m,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := uc.mustFind(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID:    input.ParentID,
		Name:        input.Name,
		Description: input.Description,
		Enabled:     enabled,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, apperr.Wrap(err, "create category")
	}
	uc.cache.Evict(ctx, cache.RegionCategories, cache.RegionCategoryClosure)

	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*hierarchy.Projection, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategories, cache.Key("getCategory", id),
		func(ctx context.Context) (*hierarchy.Projection, error) {
			arena, err := uc.arena(ctx)
			if err != nil {
				return nil, err
			}
			return arena.Project(id)
		})
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]*hierarchy.Projection, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategories, cache.Key("listCategories"),
		func(ctx context.Context) ([]*hierarchy.Projection, error) {
			arena, err := uc.arena(ctx)
			if err != nil {
				return nil, err
			}
			return arena.ProjectAll(), nil
		})
}

func (uc *categoryUseCase) ListRootCategories(ctx context.Context) ([]model.Category, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategories, cache.Key("listRootCategories"),
		func(ctx context.Context) ([]model.Category, error) {
			roots, err := uc.repo.FindRoots(ctx)
			return roots, apperr.Wrap(err, "list root categories")
		})
}

// ListChildren returns the direct children of parentID. An unknown parent
// simply has no children.
func (uc *categoryUseCase) ListChildren(ctx context.Context, parentID string) ([]model.Category, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategories, cache.Key("listChildren", parentID),
		func(ctx context.Context) ([]model.Category, error) {
			children, err := uc.repo.FindChildren(ctx, parentID)
			return children, apperr.Wrap(err, "list child categories")
		})
}

func (uc *categoryUseCase) ResolveDescendantIDs(ctx context.Context, id string) ([]string, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategoryClosure, cache.Key("resolveDescendantIds", id),
		func(ctx context.Context) ([]string, error) {
			arena, err := uc.arena(ctx)
			if err != nil {
				return nil, err
			}
			return arena.Closure(id)
		})
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	cat, err := uc.mustFind(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if *input.ParentID == input.ID {
			return nil, apperr.InvalidArgument("parent_id", "category cannot be its own parent")
		}
		if _, err := uc.mustFind(ctx, *input.ParentID); err != nil {
			return nil, err
		}
		arena, err := uc.arena(ctx)
		if err != nil {
			return nil, err
		}
		if arena.IsAncestor(input.ID, *input.ParentID) {
			return nil, apperr.InvalidArgument("parent_id", "category cannot be moved under its own descendant")
		}
	}

	cat.ParentID = input.ParentID
	cat.Name = input.Name
	cat.Description = input.Description
	cat.Enabled = input.Enabled
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, apperr.Wrap(err, "update category")
	}
	// A move changes closures, which subcategory goods searches were built from.
	uc.cache.Evict(ctx, cache.RegionCategories, cache.RegionCategoryClosure, cache.RegionGoodsSearch)

	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.mustFind(ctx, id); err != nil {
		return err
	}

	removed, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "delete category")
	}
	uc.cache.Evict(ctx,
		cache.RegionCategories,
		cache.RegionCategoryClosure,
		cache.RegionCategoryAttributes,
		cache.RegionAttributeValues,
		cache.RegionGoods,
		cache.RegionGoodsSearch,
	)

	uc.logger.Info("category subtree deleted", zap.String("category_id", id), zap.Int("removed", len(removed)))
	return nil
}

func (uc *categoryUseCase) mustFind(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "find category")
	}
	if cat == nil {
		return nil, apperr.NotFound("category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) arena(ctx context.Context) (*hierarchy.Arena, error) {
	nodes, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "load categories")
	}
	return hierarchy.NewArena(nodes, hierarchy.WithCycleHandler(uc.reportCycle)), nil
}

func (uc *categoryUseCase) reportCycle(categoryID string) {
	uc.logger.Warn("cyclic category ancestry", zap.String("category_id", categoryID))
	if uc.metrics != nil {
		uc.metrics.HierarchyAnomalies.Inc()
	}
}
