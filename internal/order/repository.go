package order

import (
	"context"
	"time"

	"github.com/fekuna/trimstore-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	// UpdateStatus moves the order from one status to another and reports
	// false when the order is missing or no longer in status from.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error)
}

// Publisher delivers an encoded event; broker.KafkaProducer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}
