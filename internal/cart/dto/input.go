package dto

import "github.com/fekuna/trimstore-service/internal/variant"

type AddItemInput struct {
	CartID    string            `json:"-" validate:"required"`
	ProductID string            `json:"productId" validate:"required"`
	Selection variant.Selection `json:"selection"`
	Quantity  int               `json:"quantity" validate:"min=1,max=10000"`
}

// UpdateQuantityInput leaves the quantity range to the ledger, which
// reports zero and negative values as an error of its own.
type UpdateQuantityInput struct {
	CartID   string `json:"-" validate:"required"`
	Key      string `json:"key" validate:"required"`
	Quantity int    `json:"quantity"`
}
