package model

import "time"

type InventoryMovement struct {
	ID             string    `db:"id" json:"id" bson:"_id"`
	ProductID      string    `db:"product_id" json:"productId" bson:"product_id"`
	SKU            string    `db:"sku" json:"sku" bson:"sku"`
	MovementType   string    `db:"movement_type" json:"movementType" bson:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantityChange" bson:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantityBefore" bson:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantityAfter" bson:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"referenceType,omitempty" bson:"reference_type,omitempty"`
	ReferenceID    *string   `db:"reference_id" json:"referenceId,omitempty" bson:"reference_id,omitempty"`
	Notes          string    `db:"notes" json:"notes" bson:"notes"`
	CreatedBy      *string   `db:"created_by" json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt" bson:"created_at"`
}
