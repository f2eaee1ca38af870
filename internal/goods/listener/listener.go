package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCancelled = "OrderCancelled"
)

// Reader is satisfied by *broker.KafkaConsumer.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// StockListener keeps goods stock in line with order events.
type StockListener struct {
	consumer Reader
	uc       goods.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewStockListener(consumer Reader, uc goods.UseCase, log logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
		backoff:  time.Second,
	}
}

// Start consumes until ctx is cancelled.
func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID     string             `json:"id"`
	ShopID string             `json:"shop_id"`
	Items  []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	GoodsID  string `json:"goods_id"`
	Quantity int    `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	// created orders take stock, cancelled ones give it back
	sign := 0
	switch event.EventType {
	case EventOrderCreated:
		sign = -1
	case EventOrderCancelled:
		sign = 1
	default:
		return
	}

	l.logger.Info("Processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.Payload.ID),
	)

	adjustments := make([]dto.StockAdjustment, 0, len(event.Payload.Items))
	for _, item := range event.Payload.Items {
		if item.Quantity <= 0 {
			continue
		}
		adjustments = append(adjustments, dto.StockAdjustment{
			GoodsID: item.GoodsID,
			Delta:   sign * item.Quantity,
		})
	}

	if err := l.uc.ReserveStock(ctx, adjustments); err != nil {
		log := l.logger.Error
		if apperr.KindOf(err) != apperr.KindInternal {
			log = l.logger.Warn
		}
		log("Failed to adjust stock for order",
			zap.String("order_id", event.Payload.ID),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.Error(err),
		)
	}
}
