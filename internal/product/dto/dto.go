package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/variant"
)

// ProductFilters.SortBy is one of name, price, created_at.
type ProductFilters struct {
	Category    string `json:"category,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
	SearchQuery string `json:"q,omitempty"`
	SortBy      string `json:"sortBy,omitempty"`
	SortOrder   string `json:"sortOrder,omitempty"`
	Page        int    `json:"page"`
	PageSize    int    `json:"pageSize"`
}

// ProductView is the detail page payload for one product and selection.
type ProductView struct {
	Product   *model.Product    `json:"product"`
	Selection variant.Selection `json:"selection"`
	Options   variant.Options   `json:"options"`
	Variant   *model.Variant    `json:"variant,omitempty"`
	Match     string            `json:"match"`
	Price     decimal.Decimal   `json:"price"`
	Image     string            `json:"image"`
	Gallery   []string          `json:"gallery"`

	variant.Availability
}
