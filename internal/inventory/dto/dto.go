package dto

import "time"

type MovementFilters struct {
	ProductID    string
	SKU          string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

// AdjustStockInput names the variant by SKU; SKU is empty for products
// without variants.
type AdjustStockInput struct {
	ProductID      string `json:"productId" validate:"required"`
	SKU            string `json:"sku"`
	QuantityChange int    `json:"quantityChange" validate:"required"`
	Reason         string `json:"reason" validate:"max=500"`
	ReferenceID    string `json:"referenceId"`
	ReferenceType  string `json:"referenceType" validate:"omitempty,oneof=manual_adjustment sale return restock"`
	UserID         string `json:"-"`
}
