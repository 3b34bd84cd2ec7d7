package cart

import (
	"context"

	"github.com/fekuna/trimstore-service/internal/cart/dto"
)

type UseCase interface {
	GetCart(ctx context.Context, cartID string) (*View, error)
	AddItem(ctx context.Context, input *dto.AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*View, error)
	RemoveItem(ctx context.Context, cartID, key string) (*View, error)
	ClearCart(ctx context.Context, cartID string) error
}
