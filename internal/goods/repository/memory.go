package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
)

type MemoryRepository struct {
	db *memory.DB
}

func NewMemoryRepository(db *memory.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func (r *MemoryRepository) Create(_ context.Context, g *model.Goods) error {
	return r.put(*g)
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Goods, error) {
	g, ok := r.db.Goods.Get(id)
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *MemoryRepository) Search(_ context.Context, p predicate.Predicate) ([]model.Goods, error) {
	goods := r.db.Goods.Select(p)
	sort.SliceStable(goods, func(i, j int) bool {
		if goods[i].Name != goods[j].Name {
			return goods[i].Name < goods[j].Name
		}
		return goods[i].ID < goods[j].ID
	})
	return goods, nil
}

func (r *MemoryRepository) Update(_ context.Context, g *model.Goods) error {
	if _, ok := r.db.Goods.Get(g.ID); !ok {
		return nil
	}
	return r.put(*g)
}

// put enforces article uniqueness like the unique index in postgres.
func (r *MemoryRepository) put(g model.Goods) error {
	ok := r.db.Goods.PutUnique(g, func(existing model.Goods) bool {
		return existing.Article == g.Article
	})
	if !ok {
		return apperr.Conflict(fmt.Sprintf("article %q already exists", g.Article))
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	byGoods := predicate.True().And(predicate.Equals("goods_id", id))
	r.db.AttributeValues.DeleteWhere(byGoods)
	r.db.GoodsImages.DeleteWhere(byGoods)
	r.db.Goods.Delete(id)
	return nil
}

func (r *MemoryRepository) IsArticleUnique(_ context.Context, article, excludeID string) (bool, error) {
	for _, g := range r.db.Goods.Select(predicate.True().And(predicate.Equals("article", article))) {
		if g.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *MemoryRepository) ReserveStock(_ context.Context, deltas map[string]int) ([]model.Goods, error) {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var updated []model.Goods
	err := r.db.Goods.Apply(ids, func(rows map[string]model.Goods) error {
		now := time.Now()
		for _, id := range ids {
			g, ok := rows[id]
			if !ok {
				return apperr.NotFound("goods", id)
			}
			if g.Stock+deltas[id] < 0 {
				return apperr.InvalidArgument("stock", fmt.Sprintf("insufficient stock for goods %s", id))
			}
			g.Stock += deltas[id]
			g.UpdatedAt = now
			rows[id] = g
			updated = append(updated, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type MemoryImageRepository struct {
	db *memory.DB
}

func NewMemoryImageRepository(db *memory.DB) *MemoryImageRepository {
	return &MemoryImageRepository{db: db}
}

func (r *MemoryImageRepository) Create(_ context.Context, img *model.GoodsImage) error {
	if img.IsMain {
		mains := predicate.True().And(
			predicate.Equals("goods_id", img.GoodsID),
			predicate.Equals("is_main", true),
		)
		r.db.GoodsImages.Update(mains, func(i model.GoodsImage) model.GoodsImage {
			i.IsMain = false
			i.UpdatedAt = img.UpdatedAt
			return i
		})
	}
	r.db.GoodsImages.Put(*img)
	return nil
}

func (r *MemoryImageRepository) FindByID(_ context.Context, id string) (*model.GoodsImage, error) {
	img, ok := r.db.GoodsImages.Get(id)
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (r *MemoryImageRepository) Search(_ context.Context, p predicate.Predicate) ([]model.GoodsImage, error) {
	images := r.db.GoodsImages.Select(p)
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsMain != images[j].IsMain {
			return images[i].IsMain
		}
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.Before(images[j].CreatedAt)
		}
		return images[i].ID < images[j].ID
	})
	return images, nil
}

func (r *MemoryImageRepository) Delete(_ context.Context, id string) error {
	r.db.GoodsImages.Delete(id)
	return nil
}
