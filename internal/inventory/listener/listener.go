package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/events"
	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

// MessageReader is the part of broker.KafkaConsumer the listener needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled.
func (l *InventoryListener) Start(ctx context.Context) error {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return nil
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.HandleMessage(ctx, msg.Value)
		}
	}
}

// HandleMessage deducts stock for every line of an OrderPlaced event. Other
// event types and malformed payloads are skipped. A failing line is logged
// and does not stop the remaining lines.
func (l *InventoryListener) HandleMessage(ctx context.Context, value []byte) {
	var event events.OrderPlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != events.OrderPlaced {
		return
	}

	l.logger.Info("Processing OrderPlaced event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		if item.Quantity <= 0 {
			continue
		}
		input := &dto.AdjustStockInput{
			ProductID:      item.ProductID,
			SKU:            item.SKU,
			QuantityChange: -item.Quantity,
			Reason:         "Order Sale",
			ReferenceID:    event.Payload.ID,
			ReferenceType:  "sale",
			UserID:         "system",
		}

		if _, err := l.uc.AdjustStock(ctx, input); err != nil {
			l.logger.Error("Failed to adjust inventory for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.String("sku", item.SKU),
				zap.Error(err),
			)
		}
	}
}
