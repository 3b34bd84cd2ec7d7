package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product/dto"
)

// MemoryRepository backs STORE_DRIVER=memory for local runs and tests.
// Products are copied on the way in and out.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[string]model.Product)}
}

func (r *MemoryRepository) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = clone(*p)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	out := clone(p)
	return &out, nil
}

func (r *MemoryRepository) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.mu.RLock()
	matched := []model.Product{}
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.SearchQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.SearchQuery)) {
			continue
		}
		matched = append(matched, clone(p))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.PageSize > 0 {
		start := (max(f.Page, 1) - 1) * f.PageSize
		if start > total {
			start = total
		}
		end := min(start+f.PageSize, total)
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *model.Product, prev time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[p.ID]
	if !ok || !stored.UpdatedAt.Equal(prev) {
		return false, nil
	}
	r.products[p.ID] = clone(*p)
	return true, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

// Mutate runs fn on the stored product under the write lock and keeps the
// result when fn succeeds. It returns false when id is unknown.
func (r *MemoryRepository) Mutate(id string, fn func(p *model.Product) error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return false, nil
	}
	p = clone(p)
	if err := fn(&p); err != nil {
		return true, err
	}
	r.products[p.ID] = p
	return true, nil
}

func clone(p model.Product) model.Product {
	if p.Variants != nil {
		vs := make(model.VariantList, len(p.Variants))
		copy(vs, p.Variants)
		p.Variants = vs
	}
	if p.BaseStockQty != nil {
		n := *p.BaseStockQty
		p.BaseStockQty = &n
	}
	return p
}
