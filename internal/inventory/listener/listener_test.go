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

	"github.com/fekuna/trimstore-service/internal/events"
	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

type recordingUseCase struct {
	inventory.UseCase

	mu     sync.Mutex
	inputs []dto.AdjustStockInput
	fail   map[string]error
}

func (u *recordingUseCase) AdjustStock(_ context.Context, in *dto.AdjustStockInput) (*model.InventoryMovement, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputs = append(u.inputs, *in)
	if err := u.fail[in.SKU]; err != nil {
		return nil, err
	}
	return &model.InventoryMovement{ProductID: in.ProductID, SKU: in.SKU}, nil
}

func (u *recordingUseCase) calls() []dto.AdjustStockInput {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]dto.AdjustStockInput(nil), u.inputs...)
}

func orderPlaced(t *testing.T, items ...events.OrderItemPayload) []byte {
	t.Helper()
	b, err := json.Marshal(events.OrderPlacedEvent{
		EventID:   "evt-1",
		EventType: events.OrderPlaced,
		Payload:   events.OrderPayload{ID: "ORD-1", CartID: "c1", Items: items},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestHandleMessage_DeductsEveryLine(t *testing.T) {
	uc := &recordingUseCase{fail: map[string]error{"A": inventory.ErrInsufficientStock}}
	l := NewInventoryListener(nil, uc, logger.NewNopLogger())

	l.HandleMessage(context.Background(), orderPlaced(t,
		events.OrderItemPayload{ProductID: "P1", SKU: "A", Quantity: 2},
		events.OrderItemPayload{ProductID: "P1", SKU: "B", Quantity: 1},
		events.OrderItemPayload{ProductID: "P2", Quantity: 3},
	))

	calls := uc.calls()
	require.Len(t, calls, 3, "a failing line does not stop the rest")
	assert.Equal(t, -2, calls[0].QuantityChange)
	assert.Equal(t, "B", calls[1].SKU)
	assert.Equal(t, "", calls[2].SKU)
	assert.Equal(t, -3, calls[2].QuantityChange)
	for _, c := range calls {
		assert.Equal(t, "sale", c.ReferenceType)
		assert.Equal(t, "ORD-1", c.ReferenceID)
		assert.Equal(t, "system", c.UserID)
	}
}

func TestHandleMessage_IgnoresOtherPayloads(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNopLogger())

	l.HandleMessage(context.Background(), []byte("not json"))
	l.HandleMessage(context.Background(), []byte(`{"event_type":"OrderCancelled","payload":{"id":"x","items":[{"product_id":"P1","quantity":1}]}}`))
	l.HandleMessage(context.Background(), orderPlaced(t, events.OrderItemPayload{ProductID: "P1", SKU: "A", Quantity: 0}))

	assert.Empty(t, uc.calls())
}

type scriptedReader struct {
	msgs chan kafka.Message
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, errors.New("reader closed")
	}
}

func TestStart_ConsumesUntilCancelled(t *testing.T) {
	reader := &scriptedReader{msgs: make(chan kafka.Message, 1)}
	uc := &recordingUseCase{}
	l := NewInventoryListener(reader, uc, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	reader.msgs <- kafka.Message{Value: orderPlaced(t, events.OrderItemPayload{ProductID: "P1", SKU: "A", Quantity: 1})}
	assert.Eventually(t, func() bool { return len(uc.calls()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
