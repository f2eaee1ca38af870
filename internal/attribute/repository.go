package attribute

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

// DefinitionRepository lookups return (nil, nil) when the row does not exist.
type DefinitionRepository interface {
	Create(ctx context.Context, def *model.AttributeDefinition) error
	FindByID(ctx context.Context, id string) (*model.AttributeDefinition, error)
	Search(ctx context.Context, p predicate.Predicate) ([]model.AttributeDefinition, error)
	Update(ctx context.Context, def *model.AttributeDefinition) error
	// Delete removes the definition and every value recorded against it.
	Delete(ctx context.Context, id string) error
}

// ValueRepository lookups return (nil, nil) when the row does not exist.
type ValueRepository interface {
	Create(ctx context.Context, value *model.AttributeValue) error
	FindByID(ctx context.Context, id string) (*model.AttributeValue, error)
	Search(ctx context.Context, p predicate.Predicate) ([]model.AttributeValue, error)
	Update(ctx context.Context, value *model.AttributeValue) error
	Delete(ctx context.Context, id string) error
}
