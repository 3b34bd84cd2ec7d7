package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/trimstore-service/internal/model"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]model.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]model.Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = clone(*o)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	out := clone(o)
	return &out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id, from, to string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	r.orders[id] = o
	return true, nil
}

func clone(o model.Order) model.Order {
	if o.Items != nil {
		o.Items = append(model.OrderLines(nil), o.Items...)
	}
	return o
}
