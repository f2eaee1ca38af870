package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/repository"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

// chanReader serves queued messages, then blocks until ctx is done.
type chanReader struct {
	ch chan kafka.Message
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.ch:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func event(t *testing.T, typ string, items ...OrderItemPayload) kafka.Message {
	t.Helper()
	data, err := json.Marshal(OrderEvent{
		EventID:   "e-1",
		EventType: typ,
		Payload:   OrderPayload{ID: "o-1", ShopID: "shop-1", Items: items},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func newGoods(t *testing.T) (goods.UseCase, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	db.Goods.Put(model.Goods{BaseModel: model.BaseModel{ID: "g1"}, Article: "A", Stock: 5})
	db.Goods.Put(model.Goods{BaseModel: model.BaseModel{ID: "g2"}, Article: "B", Stock: 1})
	uc := usecase.NewGoodsUseCase(usecase.Deps{
		Repo:   repository.NewMemoryRepository(db),
		Images: repository.NewMemoryImageRepository(db),
		Logger: logger.NewNop(),
	})
	return uc, db
}

func stock(db *memory.DB, id string) int {
	g, _ := db.Goods.Get(id)
	return g.Stock
}

func TestProcessMessage(t *testing.T) {
	uc, db := newGoods(t)
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewStockListener(nil, uc, logger.FromZap(zap.New(core)))
	ctx := context.Background()

	l.processMessage(ctx, event(t, EventOrderCreated, OrderItemPayload{GoodsID: "g1", Quantity: 2}).Value)
	assert.Equal(t, 3, stock(db, "g1"))

	l.processMessage(ctx, event(t, EventOrderCancelled, OrderItemPayload{GoodsID: "g1", Quantity: 1}).Value)
	assert.Equal(t, 4, stock(db, "g1"))

	// insufficient stock on one line leaves every line untouched
	l.processMessage(ctx, event(t, EventOrderCreated,
		OrderItemPayload{GoodsID: "g1", Quantity: 1},
		OrderItemPayload{GoodsID: "g2", Quantity: 2},
	).Value)
	assert.Equal(t, 4, stock(db, "g1"))
	assert.Equal(t, 1, stock(db, "g2"))
	assert.Equal(t, 1, logs.FilterMessage("Failed to adjust stock for order").Len())

	l.processMessage(ctx, event(t, "OrderShipped", OrderItemPayload{GoodsID: "g1", Quantity: 4}).Value)
	assert.Equal(t, 4, stock(db, "g1"))

	l.processMessage(ctx, []byte("{not json"))
	assert.Equal(t, 1, logs.FilterMessage("Failed to unmarshal event").Len())
}

type flakyReader struct {
	mu    sync.Mutex
	calls int
	next  *chanReader
}

func (r *flakyReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	r.calls++
	first := r.calls == 1
	r.mu.Unlock()
	if first {
		return kafka.Message{}, errors.New("broker unavailable")
	}
	return r.next.ReadMessage(ctx)
}

func TestStart_ConsumesUntilCancelled(t *testing.T) {
	uc, db := newGoods(t)
	reader := &flakyReader{next: &chanReader{ch: make(chan kafka.Message, 1)}}
	l := NewStockListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	reader.next.ch <- event(t, EventOrderCreated, OrderItemPayload{GoodsID: "g1", Quantity: 5})
	assert.Eventually(t, func() bool { return stock(db, "g1") == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
