package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/cart"
	"github.com/fekuna/trimstore-service/internal/cart/dto"
	"github.com/fekuna/trimstore-service/internal/product"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

type cartUseCase struct {
	store    cart.Store
	products product.Repository
	logger   logger.ZapLogger
}

func NewCartUseCase(store cart.Store, products product.Repository, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		store:    store,
		products: products,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, cartID string) (*cart.View, error) {
	l, err := cart.Open(ctx, uc.store, cartID)
	if err != nil {
		return nil, err
	}
	return cart.NewView(l), nil
}

func (uc *cartUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*cart.View, error) {
	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, cart.ErrProductUnavailable
	}

	line, stock, err := cart.LineFor(p, input.Selection, input.Quantity)
	if err != nil {
		return nil, err
	}

	l, err := cart.Open(ctx, uc.store, input.CartID)
	if err != nil {
		return nil, err
	}
	added, err := l.Add(ctx, line, stock)
	if err != nil {
		return nil, err
	}

	if added.Quantity < input.Quantity {
		uc.logger.Debug("cart quantity clamped to stock",
			zap.String("cart_id", input.CartID),
			zap.String("sku", added.SKU),
			zap.Int("requested", input.Quantity),
			zap.Int("quantity", added.Quantity),
		)
	}
	return cart.NewView(l), nil
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*cart.View, error) {
	key, err := cart.ParseKey(input.Key)
	if err != nil {
		return nil, err
	}
	l, err := cart.Open(ctx, uc.store, input.CartID)
	if err != nil {
		return nil, err
	}
	if err := l.UpdateQuantity(ctx, key, input.Quantity); err != nil {
		return nil, err
	}
	return cart.NewView(l), nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, cartID, rawKey string) (*cart.View, error) {
	key, err := cart.ParseKey(rawKey)
	if err != nil {
		return nil, err
	}
	l, err := cart.Open(ctx, uc.store, cartID)
	if err != nil {
		return nil, err
	}
	if err := l.Remove(ctx, key); err != nil {
		return nil, err
	}
	return cart.NewView(l), nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, cartID string) error {
	l, err := cart.Open(ctx, uc.store, cartID)
	if err != nil {
		return err
	}
	if err := l.Clear(ctx); err != nil {
		uc.logger.Error("failed to clear cart", zap.String("cart_id", cartID), zap.Error(err))
		return err
	}
	return nil
}
