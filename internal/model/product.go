package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel    `bson:",inline"`
	Name         string          `db:"name" json:"name" bson:"name"`
	Description  *string         `db:"description" json:"description,omitempty" bson:"description,omitempty"`
	Category     string          `db:"category" json:"category" bson:"category"`
	BasePrice    decimal.Decimal `db:"base_price" json:"price" bson:"base_price"`
	BaseStockQty *int            `db:"base_stock_qty" json:"stockQty" bson:"base_stock_qty"`        // nil on records that predate stock tracking
	InStock      *bool           `db:"in_stock" json:"inStock,omitempty" bson:"in_stock,omitempty"` // legacy flag
	ImageURL     string          `db:"image_url" json:"image" bson:"image_url"`
	IsActive     bool            `db:"is_active" json:"isActive" bson:"is_active"`
	Variants     VariantList     `db:"variants" json:"variantPricing" bson:"variants"`
}

func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

type Variant struct {
	Size     string          `json:"size,omitempty" bson:"size,omitempty"`
	Color    string          `json:"color,omitempty" bson:"color,omitempty"`
	Pack     string          `json:"pack,omitempty" bson:"pack,omitempty"`
	Quantity string          `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Price    decimal.Decimal `json:"price" bson:"price"`
	StockQty int             `json:"stockQty" bson:"stock_qty"`
	InStock  *bool           `json:"inStock,omitempty" bson:"in_stock,omitempty"` // legacy flag
	SKU      string          `json:"sku" bson:"sku"`
	Image    string          `json:"image,omitempty" bson:"image,omitempty"`
}

func (v Variant) Key() VariantKey {
	return VariantKey{Size: v.Size, Color: v.Color, Pack: v.Pack, Quantity: v.Quantity}
}

// VariantKey is the attribute tuple that identifies a variant within its product.
type VariantKey struct {
	Size     string `json:"size,omitempty" bson:"size,omitempty"`
	Color    string `json:"color,omitempty" bson:"color,omitempty"`
	Pack     string `json:"pack,omitempty" bson:"pack,omitempty"`
	Quantity string `json:"quantity,omitempty" bson:"quantity,omitempty"`
}

func (k VariantKey) IsZero() bool {
	return k == VariantKey{}
}

// VariantList is stored as a JSONB column.
type VariantList []Variant

func (l VariantList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *VariantList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported json column type")
	}
}
