package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/metrics"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *MemoryStore, *metrics.Metrics) {
	t.Helper()
	store := NewMemoryStore()
	m := metrics.New(prometheus.NewRegistry())
	return New(store, logger.NewNop(), m), store, m
}

func TestFetch_ServesSecondCallFromCache(t *testing.T) {
	c, _, m := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: "1", Name: "Mice"}}, nil
	}

	first, err := Fetch(ctx, c, RegionCategories, "listRoots", load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, RegionCategories, "listRoots", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("categories")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("categories")))
}

func TestFetch_ReturnsPrivateCopies(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	load := func(context.Context) (*item, error) { return &item{ID: "1", Name: "Mice"}, nil }

	_, err := Fetch(ctx, c, RegionGoods, "get:1", load)
	require.NoError(t, err)

	got, err := Fetch(ctx, c, RegionGoods, "get:1", load)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := Fetch(ctx, c, RegionGoods, "get:1", load)
	require.NoError(t, err)
	assert.Equal(t, "Mice", again.Name)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, RegionGoods, "get:x", func(context.Context) (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len(RegionGoods))
}

func TestEvict_FlushesOnlyListedRegions(t *testing.T) {
	c, store, m := newTestCache(t)
	ctx := context.Background()

	for _, r := range []Region{RegionGoods, RegionGoodsSearch, RegionCategories} {
		_, err := Fetch(ctx, c, r, "k", func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}

	c.Evict(ctx, RegionGoods, RegionGoodsSearch)

	assert.Equal(t, 0, store.Len(RegionGoods))
	assert.Equal(t, 0, store.Len(RegionGoodsSearch))
	assert.Equal(t, 1, store.Len(RegionCategories))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictions.WithLabelValues("goods")))
}

func TestFetch_AfterEvictReloads(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	version := 1
	load := func(context.Context) (int, error) { return version, nil }

	v, _ := Fetch(ctx, c, RegionCategories, "k", load)
	assert.Equal(t, 1, v)

	version = 2
	v, _ = Fetch(ctx, c, RegionCategories, "k", load)
	assert.Equal(t, 1, v, "stale until evicted")

	c.Evict(ctx, RegionCategories)
	v, _ = Fetch(ctx, c, RegionCategories, "k", load)
	assert.Equal(t, 2, v)
}

type failingStore struct{}

func (failingStore) Get(context.Context, Region, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingStore) Set(context.Context, Region, string, []byte) error {
	return errors.New("connection refused")
}
func (failingStore) Flush(context.Context, Region) error { return errors.New("connection refused") }

func TestFetch_BackendFailureDegradesToLoad(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := New(failingStore{}, logger.NewNop(), m)

	v, err := Fetch(context.Background(), c, RegionGoods, "k", func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheErrors.WithLabelValues("goods", "get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheErrors.WithLabelValues("goods", "set")))

	assert.NotPanics(t, func() { c.Evict(context.Background(), RegionGoods) })
}

func TestFetch_NilCacheLoadsDirectly(t *testing.T) {
	var c *Cache
	v, err := Fetch(context.Background(), c, RegionGoods, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	c.Evict(context.Background(), RegionGoods)
}

func TestKey(t *testing.T) {
	type criteria struct {
		Name  *string `json:"name,omitempty"`
		Price *int    `json:"price,omitempty"`
	}
	name := "mouse"
	price := 10

	k1 := Key("searchGoods", criteria{Name: &name, Price: &price})
	k2 := Key("searchGoods", map[string]any{"price": 10, "name": "mouse"})
	k3 := Key("searchGoods", criteria{Name: &name})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, Key("searchImages", criteria{Name: &name, Price: &price}))
	assert.Equal(t, "listRootCategories", Key("listRootCategories"))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			region := AllRegions[i%len(AllRegions)]
			for j := 0; j < 50; j++ {
				_, err := Fetch(ctx, c, region, Key("op", j%5), func(context.Context) (int, error) { return j, nil })
				assert.NoError(t, err)
				if j%10 == 0 {
					c.Evict(ctx, region)
				}
			}
		}(i)
	}
	wg.Wait()
}
