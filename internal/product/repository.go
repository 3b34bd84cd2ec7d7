package product

import (
	"context"
	"time"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	// FindByID returns nil, nil when no product has the id.
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update writes product only while the stored updated_at still equals
	// prev, and reports false when the row changed or vanished meanwhile.
	Update(ctx context.Context, product *model.Product, prev time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}
