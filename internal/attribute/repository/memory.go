package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
)

type MemoryDefinitionRepository struct {
	db *memory.DB
}

func NewMemoryDefinitionRepository(db *memory.DB) *MemoryDefinitionRepository {
	return &MemoryDefinitionRepository{db: db}
}

func (r *MemoryDefinitionRepository) Create(_ context.Context, d *model.AttributeDefinition) error {
	r.db.Attributes.Put(*d)
	return nil
}

func (r *MemoryDefinitionRepository) FindByID(_ context.Context, id string) (*model.AttributeDefinition, error) {
	d, ok := r.db.Attributes.Get(id)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryDefinitionRepository) Search(_ context.Context, p predicate.Predicate) ([]model.AttributeDefinition, error) {
	defs := r.db.Attributes.Select(p)
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Name != defs[j].Name {
			return defs[i].Name < defs[j].Name
		}
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

func (r *MemoryDefinitionRepository) Update(_ context.Context, d *model.AttributeDefinition) error {
	if _, ok := r.db.Attributes.Get(d.ID); ok {
		r.db.Attributes.Put(*d)
	}
	return nil
}

func (r *MemoryDefinitionRepository) Delete(_ context.Context, id string) error {
	r.db.AttributeValues.DeleteWhere(predicate.True().And(predicate.Equals("attribute_id", id)))
	r.db.Attributes.Delete(id)
	return nil
}

type MemoryValueRepository struct {
	db *memory.DB
}

func NewMemoryValueRepository(db *memory.DB) *MemoryValueRepository {
	return &MemoryValueRepository{db: db}
}

func (r *MemoryValueRepository) Create(_ context.Context, v *model.AttributeValue) error {
	ok := r.db.AttributeValues.PutUnique(*v, func(existing model.AttributeValue) bool {
		return existing.GoodsID == v.GoodsID && existing.AttributeID == v.AttributeID
	})
	if !ok {
		return apperr.Conflict(fmt.Sprintf("goods %s already has a value for attribute %s", v.GoodsID, v.AttributeID))
	}
	return nil
}

func (r *MemoryValueRepository) FindByID(_ context.Context, id string) (*model.AttributeValue, error) {
	v, ok := r.db.AttributeValues.Get(id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *MemoryValueRepository) Search(_ context.Context, p predicate.Predicate) ([]model.AttributeValue, error) {
	values := r.db.AttributeValues.Select(p)
	sort.SliceStable(values, func(i, j int) bool {
		if values[i].GoodsID != values[j].GoodsID {
			return values[i].GoodsID < values[j].GoodsID
		}
		return values[i].AttributeID < values[j].AttributeID
	})
	return values, nil
}

func (r *MemoryValueRepository) Update(_ context.Context, v *model.AttributeValue) error {
	if _, ok := r.db.AttributeValues.Get(v.ID); ok {
		r.db.AttributeValues.Put(*v)
	}
	return nil
}

func (r *MemoryValueRepository) Delete(_ context.Context, id string) error {
	r.db.AttributeValues.Delete(id)
	return nil
}
