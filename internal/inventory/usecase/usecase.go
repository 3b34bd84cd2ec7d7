package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/pkg/cache"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo   inventory.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

// NewInventoryUseCase serializes adjustments per product/variant through a
// Redis lock. A nil cache disables locking.
func NewInventoryUseCase(repo inventory.Repository, cache *cache.RedisClient, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error) {
	if input.QuantityChange == 0 {
		return nil, fmt.Errorf("%w: zero quantity change", inventory.ErrInvalidAdjustment)
	}

	lockKey := LockKey(input.ProductID, input.SKU)
	release, err := uc.lock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		SKU:            input.SKU,
		MovementType:   movementType(input.ReferenceType),
		QuantityChange: input.QuantityChange,
		ReferenceType:  optional(input.ReferenceType),
		ReferenceID:    optional(input.ReferenceID),
		Notes:          input.Reason,
		CreatedAt:      time.Now(),
	}
	if input.UserID != "system" {
		movement.CreatedBy = optional(input.UserID)
	}

	err = uc.repo.AdjustStockWithMovement(ctx, movement)
	for i := 1; i < lockAttempts && errors.Is(err, inventory.ErrConcurrentUpdate); i++ {
		err = uc.repo.AdjustStockWithMovement(ctx, movement)
	}
	if err != nil {
		uc.logger.Warn("stock adjustment rejected",
			zap.String("product_id", input.ProductID),
			zap.String("sku", input.SKU),
			zap.Int("change", input.QuantityChange),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", movement.ProductID),
		zap.String("sku", movement.SKU),
		zap.Int("before", movement.QuantityBefore),
		zap.Int("after", movement.QuantityAfter),
	)
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) lock(ctx context.Context, key string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	value := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.cache.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.cache.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, inventory.ErrBusy
}

// LockKey is the Redis key guarding stock of one variant, or of a product's
// base stock when sku is empty.
func LockKey(productID, sku string) string {
	key := "lock:inventory:" + productID
	if sku != "" {
		key += ":" + sku
	}
	return key
}

func movementType(referenceType string) string {
	switch referenceType {
	case "sale", "return", "restock":
		return referenceType
	}
	return "adjustment"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
