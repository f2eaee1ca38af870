package attribute

import (
	"context"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

type UseCase interface {
	SearchCategoryAttributes(ctx context.Context, filter *dto.DefinitionFilter) ([]model.AttributeDefinition, error)
	GetCategoryAttribute(ctx context.Context, id string) (*model.AttributeDefinition, error)
	CreateCategoryAttribute(ctx context.Context, input *dto.CreateDefinitionInput) (*model.AttributeDefinition, error)
	UpdateCategoryAttribute(ctx context.Context, input *dto.UpdateDefinitionInput) (*model.AttributeDefinition, error)
	DeleteCategoryAttribute(ctx context.Context, id string) error

	SearchAttributeValues(ctx context.Context, filter *dto.ValueFilter) ([]model.AttributeValue, error)
	GetAttributeValue(ctx context.Context, id string) (*model.AttributeValue, error)
	CreateAttributeValue(ctx context.Context, input *dto.CreateValueInput) (*model.AttributeValue, error)
	UpdateAttributeValue(ctx context.Context, input *dto.UpdateValueInput) (*model.AttributeValue, error)
	DeleteAttributeValue(ctx context.Context, id string) error
}
