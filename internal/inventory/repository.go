package inventory

import (
	"context"

	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
)

type Repository interface {
	// AdjustStockWithMovement applies movement.QuantityChange to the product
	// (or the variant named by movement.SKU), fills in the before and after
	// quantities and records the movement, all or nothing.
	AdjustStockWithMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
