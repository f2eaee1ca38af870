package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), &RedisConfig{Addr: mr.Addr(), Prefix: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_SetGetFlush(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, RegionGoods, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, RegionGoods, "k1", []byte("v1")))
	require.NoError(t, s.Set(ctx, RegionGoods, "k2", []byte("v2")))

	got, ok, err := s.Get(ctx, RegionGoods, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, s.Flush(ctx, RegionGoods))
	for _, k := range []string{"k1", "k2"} {
		_, ok, err := s.Get(ctx, RegionGoods, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}

	// flushing an empty region is fine
	require.NoError(t, s.Flush(ctx, RegionGoods))
}

func TestRedisStore_FlushKeepsOtherRegions(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, RegionGoods, "k", []byte("goods")))
	require.NoError(t, s.Set(ctx, RegionCategories, "k", []byte("categories")))

	require.NoError(t, s.Flush(ctx, RegionGoods))

	_, ok, err := s.Get(ctx, RegionGoods, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := s.Get(ctx, RegionCategories, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "categories", string(got))

	assert.False(t, mr.Exists("test:region:goods"))
	assert.True(t, mr.Exists("test:region:categories"))
}

// afterCommand runs fn once, right after the first command named in names
// completes on the client it is attached to.
type afterCommand struct {
	names map[string]bool
	once  sync.Once
	fn    func()
}

func (h *afterCommand) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *afterCommand) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if h.names[cmd.Name()] {
			h.once.Do(h.fn)
		}
		return err
	}
}

func (h *afterCommand) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisStore_SetDuringFlushIsNotOrphaned(t *testing.T) {
	flusher, mr := newRedisStore(t)
	writer, err := NewRedisStore(context.Background(), &RedisConfig{Addr: mr.Addr(), Prefix: "test"})
	require.NoError(t, err)
	defer writer.Close()
	ctx := context.Background()

	require.NoError(t, flusher.Set(ctx, RegionGoods, "old", []byte("old")))

	// A reader repopulates the region while the flush is in progress.
	flusher.Client.AddHook(&afterCommand{
		names: map[string]bool{"smembers": true, "evalsha": true, "eval": true},
		fn: func() {
			require.NoError(t, writer.Set(ctx, RegionGoods, "k", []byte("stale")))
		},
	})
	require.NoError(t, flusher.Flush(ctx, RegionGoods))

	// Whatever the interleaving, the next eviction must remove the entry.
	require.NoError(t, flusher.Flush(ctx, RegionGoods))

	_, ok, err := flusher.Get(ctx, RegionGoods, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry outlived a later flush")
	_, ok, err = flusher.Get(ctx, RegionGoods, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_OverRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	c := New(s, logger.NewNop(), nil)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: "1", Name: "Mice"}}, nil
	}

	_, err := Fetch(ctx, c, RegionCategories, "listRoots", load)
	require.NoError(t, err)
	got, err := Fetch(ctx, c, RegionCategories, "listRoots", load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Mice", got[0].Name)

	c.Evict(ctx, RegionCategories)
	_, err = Fetch(ctx, c, RegionCategories, "listRoots", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
