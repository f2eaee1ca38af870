package repository

import (
	"context"
	"sort"
	"time"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/hierarchy"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
)

// MemoryRepository keeps categories in the in-process store.
type MemoryRepository struct {
	db *memory.DB
}

func NewMemoryRepository(db *memory.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func (r *MemoryRepository) Create(_ context.Context, c *model.Category) error {
	r.db.Categories.Put(*c)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	c, ok := r.db.Categories.Get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]model.Category, error) {
	return byName(r.db.Categories.Select(predicate.True())), nil
}

func (r *MemoryRepository) FindRoots(_ context.Context) ([]model.Category, error) {
	return r.filter(func(c model.Category) bool { return c.ParentID == nil }), nil
}

func (r *MemoryRepository) FindChildren(_ context.Context, parentID string) ([]model.Category, error) {
	return r.filter(func(c model.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (r *MemoryRepository) Update(_ context.Context, c *model.Category) error {
	if _, ok := r.db.Categories.Get(c.ID); ok {
		r.db.Categories.Put(*c)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) ([]string, error) {
	if _, ok := r.db.Categories.Get(id); !ok {
		return nil, nil
	}

	arena := hierarchy.NewArena(r.db.Categories.Select(predicate.True()))
	ids, err := arena.Closure(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r.db.Goods.Update(predicate.True().And(predicate.In("category_id", ids)), func(g model.Goods) model.Goods {
		g.CategoryID = nil
		g.UpdatedAt = now
		return g
	})

	attrIDs := r.db.Attributes.DeleteWhere(predicate.True().And(predicate.In("category_id", ids)))
	if len(attrIDs) > 0 {
		r.db.AttributeValues.DeleteWhere(predicate.True().And(predicate.In("attribute_id", attrIDs)))
	}
	r.db.Categories.DeleteWhere(predicate.True().And(predicate.In("id", ids)))

	return ids, nil
}

func (r *MemoryRepository) filter(keep func(model.Category) bool) []model.Category {
	all := r.db.Categories.Select(predicate.True())
	out := make([]model.Category, 0, len(all))
	for _, c := range all {
		if keep(c) {
			out = append(out, c)
		}
	}
	return byName(out)
}

func byName(cs []model.Category) []model.Category {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
	return cs
}
