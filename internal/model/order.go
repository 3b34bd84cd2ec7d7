package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	BaseModel    `bson:",inline"`
	CartID       string          `db:"cart_id" json:"cartId" bson:"cart_id"`
	ContactName  string          `db:"contact_name" json:"contactName" bson:"contact_name"`
	ContactEmail string          `db:"contact_email" json:"contactEmail" bson:"contact_email"`
	ShippingAddr string          `db:"shipping_address" json:"shippingAddress" bson:"shipping_address"`
	Items        OrderLines      `db:"items" json:"items" bson:"items"`
	Total        decimal.Decimal `db:"total" json:"total" bson:"total"`
	Status       string          `db:"status" json:"status" bson:"status"`
}

type OrderLine struct {
	ProductID  string          `json:"productId" bson:"product_id"`
	SKU        string          `json:"sku,omitempty" bson:"sku,omitempty"`
	VariantKey VariantKey      `json:"variantKey" bson:"variant_key"`
	Name       string          `json:"name" bson:"name"`
	Price      decimal.Decimal `json:"price" bson:"price"`
	Quantity   int             `json:"quantity" bson:"quantity"`
	Image      string          `json:"image,omitempty" bson:"image,omitempty"`
	Category   string          `json:"category" bson:"category"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *OrderLines) Scan(src interface{}) error {
	return scanJSON(src, l)
}
