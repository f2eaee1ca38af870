package memory

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

func goods(id, shop string, stock int) model.Goods {
	return model.Goods{BaseModel: model.BaseModel{ID: id}, ShopID: shop, Stock: stock}
}

func TestTable(t *testing.T) {
	tbl := NewTable[model.Goods]()
	tbl.Put(goods("b", "s1", 1))
	tbl.Put(goods("a", "s1", 0))
	tbl.Put(goods("c", "s2", 5))

	all := tbl.Select(predicate.True())
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID, "ordered by key")

	shop := "s1"
	s1 := tbl.Select(predicate.True().And(predicate.Eq("shop_id", &shop)))
	assert.Len(t, s1, 2)

	n := tbl.Update(predicate.True().And(predicate.Eq("shop_id", &shop)), func(g model.Goods) model.Goods {
		g.Stock += 10
		return g
	})
	assert.Equal(t, 2, n)
	got, ok := tbl.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, got.Stock)

	removed := tbl.DeleteWhere(predicate.True().And(predicate.Eq("shop_id", &shop)))
	assert.Equal(t, []string{"a", "b"}, removed)
	assert.Equal(t, 1, tbl.Len())

	assert.True(t, tbl.Delete("c"))
	assert.False(t, tbl.Delete("c"))
}

func TestTable_ApplyIsAllOrNothing(t *testing.T) {
	tbl := NewTable[model.Goods]()
	tbl.Put(goods("a", "s1", 3))
	tbl.Put(goods("b", "s1", 1))

	err := tbl.Apply([]string{"a", "b"}, func(rows map[string]model.Goods) error {
		for id, g := range rows {
			g.Stock -= 2
			if g.Stock < 0 {
				return assert.AnError
			}
			rows[id] = g
		}
		return nil
	})
	assert.ErrorIs(t, err, assert.AnError)

	a, _ := tbl.Get("a")
	b, _ := tbl.Get("b")
	assert.Equal(t, 3, a.Stock)
	assert.Equal(t, 1, b.Stock)

	err = tbl.Apply([]string{"a", "missing"}, func(rows map[string]model.Goods) error {
		assert.Len(t, rows, 1)
		g := rows["a"]
		g.Stock = 0
		rows["a"] = g
		return nil
	})
	assert.NoError(t, err)
	a, _ = tbl.Get("a")
	assert.Equal(t, 0, a.Stock)
}

func TestTable_PutUniqueConcurrent(t *testing.T) {
	tbl := NewTable[model.Goods]()
	sameArticle := func(existing model.Goods) bool { return existing.Article == "DUP" }

	var wg sync.WaitGroup
	var stored atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := goods(fmt.Sprintf("g%d", i), "s1", 0)
			g.Article = "DUP"
			if tbl.PutUnique(g, sameArticle) {
				stored.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), stored.Load())
	assert.Equal(t, 1, tbl.Len())

	// replacing the row that holds the value is not a clash with itself
	g := tbl.Select(predicate.True())[0]
	g.Stock = 7
	assert.True(t, tbl.PutUnique(g, sameArticle))
}
