package dto

import (
	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

type DefinitionFilter struct {
	Name       *string              `json:"name,omitempty"` // Substring match
	CategoryID *string              `json:"category_id,omitempty"`
	Type       *model.AttributeType `json:"type,omitempty"`
}

func (f *DefinitionFilter) Validate() error {
	if f.Type != nil && !f.Type.Valid() {
		return apperr.InvalidArgument("type", "unknown attribute type "+string(*f.Type))
	}
	return nil
}

func (f *DefinitionFilter) Predicate() predicate.Predicate {
	return predicate.True().And(
		predicate.Contains("name", f.Name),
		predicate.Eq("category_id", f.CategoryID),
		predicate.Eq("type", f.Type),
	)
}

type ValueFilter struct {
	GoodsID     *string `json:"goods_id,omitempty"`
	AttributeID *string `json:"attribute_id,omitempty"`
}

func (f *ValueFilter) Predicate() predicate.Predicate {
	return predicate.True().And(
		predicate.Eq("goods_id", f.GoodsID),
		predicate.Eq("attribute_id", f.AttributeID),
	)
}

type CreateDefinitionInput struct {
	CategoryID string              `json:"category_id" validate:"required"`
	Name       string              `json:"name" validate:"required,max=255"`
	Type       model.AttributeType `json:"type" validate:"required,oneof=STRING NUMBER BOOLEAN ENUM"`
}

type UpdateDefinitionInput struct {
	ID         string              `json:"id" validate:"required"`
	CategoryID string              `json:"category_id" validate:"required"`
	Name       string              `json:"name" validate:"required,max=255"`
	Type       model.AttributeType `json:"type" validate:"required,oneof=STRING NUMBER BOOLEAN ENUM"`
}

type CreateValueInput struct {
	GoodsID     string  `json:"goods_id" validate:"required"`
	AttributeID string  `json:"attribute_id" validate:"required"`
	Value       *string `json:"value,omitempty"`
}

type UpdateValueInput struct {
	ID    string  `json:"id" validate:"required"`
	Value *string `json:"value,omitempty"`
}

type DefinitionResponse struct {
	Attribute *model.AttributeDefinition `json:"attribute"`
}

type DefinitionListResponse struct {
	Attributes []model.AttributeDefinition `json:"attributes"`
}

type ValueResponse struct {
	Value *model.AttributeValue `json:"value"`
}

type ValueListResponse struct {
	Values []model.AttributeValue `json:"values"`
}
