package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
	productrepo "github.com/fekuna/trimstore-service/internal/product/repository"
)

type MemoryRepository struct {
	products *productrepo.MemoryRepository

	mu        sync.RWMutex
	movements []model.InventoryMovement
}

func NewMemoryRepository(products *productrepo.MemoryRepository) *MemoryRepository {
	return &MemoryRepository{products: products}
}

func (r *MemoryRepository) AdjustStockWithMovement(_ context.Context, m *model.InventoryMovement) error {
	found, err := r.products.Mutate(m.ProductID, func(p *model.Product) error {
		before, after, err := inventory.ApplyDelta(p, m.SKU, m.QuantityChange)
		if err != nil {
			return err
		}
		m.QuantityBefore, m.QuantityAfter = before, after
		p.UpdatedAt = m.CreatedAt
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return inventory.ErrProductNotFound
	}

	r.mu.Lock()
	r.movements = append(r.movements, *m)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListMovements(_ context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	r.mu.RLock()
	items := []model.InventoryMovement{}
	for _, m := range r.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.SKU != "" && m.SKU != f.SKU {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.StartDate != nil && m.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate) {
			continue
		}
		items = append(items, m)
	}
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := len(items)
	if f.PageSize > 0 {
		start := min((max(f.Page, 1)-1)*f.PageSize, total)
		items = items[start:min(start+f.PageSize, total)]
	}
	return items, total, nil
}
