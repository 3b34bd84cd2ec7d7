package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/variant"
)

type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"required,max=64"`
	Price       decimal.Decimal `json:"price"`
	StockQty    *int            `json:"stockQty"`
	ImageURL    string          `json:"image"`
	Variants    []model.Variant `json:"variantPricing" validate:"max=200"`
}

type UpdateProductInput struct {
	ID          string          `json:"-" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"required,max=64"`
	Price       decimal.Decimal `json:"price"`
	StockQty    *int            `json:"stockQty"`
	ImageURL    string          `json:"image"`
	IsActive    bool            `json:"isActive"`
	Variants    []model.Variant `json:"variantPricing" validate:"max=200"`
}

// ProductViewInput carries the shopper's current selection. PreviousSKU is
// the variant shown before the selection changed, if any.
type ProductViewInput struct {
	ID          string
	Selection   variant.Selection
	PreviousSKU string
}
