// Package indexer mirrors goods into the full-text search index. Syncing is
// best effort: failures are logged and never reach the caller.
package indexer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

const syncTimeout = 10 * time.Second

const goodsMapping = `{
	"mappings": {
		"properties": {
			"article": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"shop_id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"status": { "type": "keyword" },
			"discount_status": { "type": "keyword" },
			"price": { "type": "double" },
			"rating": { "type": "double" },
			"stock": { "type": "integer" },
			"created_at": { "type": "date" },
			"updated_at": { "type": "date" }
		}
	}
}`

// Index is the subset of the search client the indexer needs.
type Index interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
}

// Indexer syncs in the background on a single worker, so operations reach the
// index in the order they were requested. A nil *Indexer is a no-op.
type Indexer struct {
	es     Index
	index  string
	logger logger.ZapLogger

	mu    sync.Mutex
	queue []func(ctx context.Context)
	wake  chan struct{}
	start sync.Once
	wg    sync.WaitGroup
}

func New(es Index, index string, log logger.ZapLogger) *Indexer {
	return &Indexer{
		es:     es,
		index:  index,
		logger: log,
		wake:   make(chan struct{}, 1),
	}
}

// EnsureIndex creates the goods index with its mapping if it is missing.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	if i == nil {
		return nil
	}
	return i.es.CreateIndex(ctx, i.index, goodsMapping)
}

func (i *Indexer) Upsert(goods ...model.Goods) {
	if i == nil {
		return
	}
	i.run(func(ctx context.Context) {
		for _, g := range goods {
			if err := i.es.Index(ctx, i.index, g.ID, g); err != nil {
				i.logger.Error("failed to index goods", zap.String("goods_id", g.ID), zap.Error(err))
			}
		}
	})
}

func (i *Indexer) Remove(id string) {
	if i == nil {
		return
	}
	i.run(func(ctx context.Context) {
		if err := i.es.Delete(ctx, i.index, id); err != nil {
			i.logger.Error("failed to delete goods from index", zap.String("goods_id", id), zap.Error(err))
		}
	})
}

// Wait blocks until every pending sync has finished.
func (i *Indexer) Wait() {
	if i == nil {
		return
	}
	i.wg.Wait()
}

func (i *Indexer) run(fn func(ctx context.Context)) {
	i.start.Do(func() { go i.work() })

	i.wg.Add(1)
	i.mu.Lock()
	i.queue = append(i.queue, fn)
	i.mu.Unlock()

	select {
	case i.wake <- struct{}{}:
	default:
	}
}

func (i *Indexer) work() {
	for range i.wake {
		for {
			i.mu.Lock()
			if len(i.queue) == 0 {
				i.mu.Unlock()
				break
			}
			fn := i.queue[0]
			i.queue = i.queue[1:]
			i.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			fn(ctx)
			cancel()
			i.wg.Done()
		}
	}
}
