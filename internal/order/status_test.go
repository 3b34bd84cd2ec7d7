package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/trimstore-service/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{model.OrderStatusPending, model.OrderStatusPaid, true},
		{model.OrderStatusPending, model.OrderStatusCancelled, true},
		{model.OrderStatusPending, model.OrderStatusShipped, false},
		{model.OrderStatusPaid, model.OrderStatusShipped, true},
		{model.OrderStatusPaid, model.OrderStatusCancelled, true},
		{model.OrderStatusShipped, model.OrderStatusDelivered, true},
		{model.OrderStatusShipped, model.OrderStatusCancelled, false},
		{model.OrderStatusDelivered, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusPaid, false},
		{model.OrderStatusPending, model.OrderStatusPending, false},
		{"unknown", model.OrderStatusPaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
