package category

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	FindRoots(ctx context.Context) ([]model.Category, error)
	FindChildren(ctx context.Context, parentID string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category with its whole subtree, their attribute
	// definitions and values, and detaches goods from them. It returns the
	// removed category ids.
	Delete(ctx context.Context, id string) ([]string, error)
}
