package category

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/hierarchy"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*hierarchy.Projection, error)
	ListCategories(ctx context.Context) ([]*hierarchy.Projection, error)
	ListRootCategories(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]model.Category, error)
	ResolveDescendantIDs(ctx context.Context, id string) ([]string, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ClosureResolver expands a category into itself plus all of its descendants.
// Goods search depends on it to honour includeSubcategories.
type ClosureResolver interface {
	ResolveDescendantIDs(ctx context.Context, id string) ([]string, error)
}
