package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/cache"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/validation"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

type Deps struct {
	Definitions attribute.DefinitionRepository
	Values      attribute.ValueRepository
	Categories  category.Repository
	Goods       goods.Repository
	Cache       *cache.Cache // Optional
	Logger      logger.ZapLogger
}

type attributeUseCase struct {
	defs       attribute.DefinitionRepository
	values     attribute.ValueRepository
	categories category.Repository
	goods      goods.Repository
	cache      *cache.Cache
	logger     logger.ZapLogger
}

func NewAttributeUseCase(d Deps) attribute.UseCase {
	return &attributeUseCase{
		defs:       d.Definitions,
		values:     d.Values,
		categories: d.Categories,
		goods:      d.Goods,
		cache:      d.Cache,
		logger:     d.Logger,
	}
}

func (uc *attributeUseCase) SearchCategoryAttributes(ctx context.Context, filter *dto.DefinitionFilter) ([]model.AttributeDefinition, error) {
	if filter == nil {
		filter = &dto.DefinitionFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, uc.cache, cache.RegionCategoryAttributes, cache.Key("searchCategoryAttributes", filter),
		func(ctx context.Context) ([]model.AttributeDefinition, error) {
			defs, err := uc.defs.Search(ctx, filter.Predicate())
			return defs, apperr.Wrap(err, "search category attributes")
		})
}

func (uc *attributeUseCase) GetCategoryAttribute(ctx context.Context, id string) (*model.AttributeDefinition, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionCategoryAttributes, cache.Key("getCategoryAttribute", id),
		func(ctx context.Context) (*model.AttributeDefinition, error) {
			return uc.mustFindDefinition(ctx, id)
		})
}

func (uc *attributeUseCase) CreateCategoryAttribute(ctx context.Context, input *dto.CreateDefinitionInput) (*model.AttributeDefinition, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	def := &model.AttributeDefinition{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Type:       input.Type,
	}
	if err := uc.defs.Create(ctx, def); err != nil {
		return nil, apperr.Wrap(err, "create category attribute")
	}
	uc.cache.Evict(ctx, cache.RegionCategoryAttributes)

	return def, nil
}

func (uc *attributeUseCase) UpdateCategoryAttribute(ctx context.Context, input *dto.UpdateDefinitionInput) (*model.AttributeDefinition, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	def, err := uc.mustFindDefinition(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if def.CategoryID != input.CategoryID {
		if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	def.CategoryID = input.CategoryID
	def.Name = input.Name
	def.Type = input.Type
	def.UpdatedAt = time.Now()

	if err := uc.defs.Update(ctx, def); err != nil {
		return nil, apperr.Wrap(err, "update category attribute")
	}
	uc.cache.Evict(ctx, cache.RegionCategoryAttributes)

	return def, nil
}

func (uc *attributeUseCase) DeleteCategoryAttribute(ctx context.Context, id string) error {
	if _, err := uc.mustFindDefinition(ctx, id); err != nil {
		return err
	}
	if err := uc.defs.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, "delete category attribute")
	}
	uc.cache.Evict(ctx, cache.RegionCategoryAttributes, cache.RegionAttributeValues)
	return nil
}

func (uc *attributeUseCase) SearchAttributeValues(ctx context.Context, filter *dto.ValueFilter) ([]model.AttributeValue, error) {
	if filter == nil {
		filter = &dto.ValueFilter{}
	}
	return cache.Fetch(ctx, uc.cache, cache.RegionAttributeValues, cache.Key("searchAttributeValues", filter),
		func(ctx context.Context) ([]model.AttributeValue, error) {
			values, err := uc.values.Search(ctx, filter.Predicate())
			return values, apperr.Wrap(err, "search attribute values")
		})
}

func (uc *attributeUseCase) GetAttributeValue(ctx context.Context, id string) (*model.AttributeValue, error) {
	return cache.Fetch(ctx, uc.cache, cache.RegionAttributeValues, cache.Key("getAttributeValue", id),
		func(ctx context.Context) (*model.AttributeValue, error) {
			return uc.mustFindValue(ctx, id)
		})
}

func (uc *attributeUseCase) CreateAttributeValue(ctx context.Context, input *dto.CreateValueInput) (*model.AttributeValue, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	def, err := uc.mustFindDefinition(ctx, input.AttributeID)
	if err != nil {
		return nil, err
	}
	if err := checkValue(def.Type, input.Value); err != nil {
		return nil, err
	}

	g, err := uc.goods.FindByID(ctx, input.GoodsID)
	if err != nil {
		return nil, apperr.Wrap(err, "find goods")
	}
	if g == nil {
		return nil, apperr.NotFound("goods", input.GoodsID)
	}

	existing, err := uc.values.Search(ctx, predicate.True().And(
		predicate.Equals("goods_id", input.GoodsID),
		predicate.Equals("attribute_id", input.AttributeID),
	))
	if err != nil {
		return nil, apperr.Wrap(err, "check attribute value")
	}
	if len(existing) > 0 {
		return nil, apperr.Conflict(fmt.Sprintf("goods %s already has a value for attribute %s", input.GoodsID, input.AttributeID))
	}

	now := time.Now()
	v := &model.AttributeValue{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		GoodsID:     input.GoodsID,
		AttributeID: input.AttributeID,
		Value:       input.Value,
	}
	if err := uc.values.Create(ctx, v); err != nil {
		return nil, apperr.Wrap(err, "create attribute value")
	}
	uc.cache.Evict(ctx, cache.RegionAttributeValues)

	return v, nil
}

func (uc *attributeUseCase) UpdateAttributeValue(ctx context.Context, input *dto.UpdateValueInput) (*model.AttributeValue, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	v, err := uc.mustFindValue(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	def, err := uc.mustFindDefinition(ctx, v.AttributeID)
	if err != nil {
		return nil, err
	}
	if err := checkValue(def.Type, input.Value); err != nil {
		return nil, err
	}

	v.Value = input.Value
	v.UpdatedAt = time.Now()
	if err := uc.values.Update(ctx, v); err != nil {
		return nil, apperr.Wrap(err, "update attribute value")
	}
	uc.cache.Evict(ctx, cache.RegionAttributeValues)

	return v, nil
}

func (uc *attributeUseCase) DeleteAttributeValue(ctx context.Context, id string) error {
	if _, err := uc.mustFindValue(ctx, id); err != nil {
		return err
	}
	if err := uc.values.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, "delete attribute value")
	}
	uc.cache.Evict(ctx, cache.RegionAttributeValues)
	return nil
}

func (uc *attributeUseCase) mustFindDefinition(ctx context.Context, id string) (*model.AttributeDefinition, error) {
	def, err := uc.defs.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "find category attribute")
	}
	if def == nil {
		return nil, apperr.NotFound("category attribute", id)
	}
	return def, nil
}

func (uc *attributeUseCase) mustFindValue(ctx context.Context, id string) (*model.AttributeValue, error) {
	v, err := uc.values.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "find attribute value")
	}
	if v == nil {
		return nil, apperr.NotFound("attribute value", id)
	}
	return v, nil
}

func (uc *attributeUseCase) checkCategory(ctx context.Context, id string) error {
	c, err := uc.categories.FindByID(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "find category")
	}
	if c == nil {
		return apperr.NotFound("category", id)
	}
	return nil
}

// checkValue rejects values that cannot be read as the attribute's type.
// Absent values are always allowed.
func checkValue(t model.AttributeType, value *string) error {
	if value == nil {
		return nil
	}
	switch t {
	case model.AttributeTypeNumber:
		if _, err := strconv.ParseFloat(*value, 64); err != nil {
			return apperr.InvalidArgument("value", fmt.Sprintf("%q is not a number", *value))
		}
	case model.AttributeTypeBoolean:
		if _, err := strconv.ParseBool(*value); err != nil {
			return apperr.InvalidArgument("value", fmt.Sprintf("%q is not a boolean", *value))
		}
	}
	return nil
}
