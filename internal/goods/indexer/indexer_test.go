package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]any
	created map[string]string
	ops     []string
	failing bool
	delay   time.Duration
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]any{}, created: map[string]string{}}
}

func (f *fakeIndex) CreateIndex(_ context.Context, index, mapping string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[index] = mapping
	return nil
}

func (f *fakeIndex) Index(_ context.Context, _ string, id string, doc any) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("cluster unavailable")
	}
	f.docs[id] = doc
	f.ops = append(f.ops, "index "+id)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.ops = append(f.ops, "delete "+id)
	return nil
}

func TestIndexer_UpsertAndRemove(t *testing.T) {
	es := newFakeIndex()
	idx := New(es, "goods", logger.NewNop())

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Contains(t, es.created["goods"], `"article"`)

	idx.Upsert(model.Goods{BaseModel: model.BaseModel{ID: "g1"}}, model.Goods{BaseModel: model.BaseModel{ID: "g2"}})
	idx.Wait()
	assert.Len(t, es.docs, 2)

	idx.Remove("g1")
	idx.Wait()
	assert.Len(t, es.docs, 1)
	assert.Contains(t, es.docs, "g2")
}

func TestIndexer_FailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	es := newFakeIndex()
	es.failing = true

	idx := New(es, "goods", logger.FromZap(zap.New(core)))
	idx.Upsert(model.Goods{BaseModel: model.BaseModel{ID: "g1"}})
	idx.Wait()

	assert.Equal(t, 1, logs.FilterMessage("failed to index goods").Len())
}

func TestIndexer_NilIsNoop(t *testing.T) {
	var idx *Indexer
	idx.Upsert(model.Goods{})
	idx.Remove("x")
	idx.Wait()
	assert.NoError(t, idx.EnsureIndex(context.Background()))
}

func TestIndexer_KeepsRequestOrder(t *testing.T) {
	es := newFakeIndex()
	es.delay = 20 * time.Millisecond
	idx := New(es, "goods", logger.NewNop())

	idx.Upsert(model.Goods{BaseModel: model.BaseModel{ID: "g1"}})
	idx.Remove("g1")
	idx.Upsert(model.Goods{BaseModel: model.BaseModel{ID: "g2"}})
	idx.Wait()

	assert.Equal(t, []string{"index g1", "delete g1", "index g2"}, es.ops)
	assert.NotContains(t, es.docs, "g1")
	assert.Contains(t, es.docs, "g2")
}
