package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/trimstore-service/internal/model"
)

func TestAggregate_VariantProduct(t *testing.T) {
	p := &model.Product{Category: CategoryButtons, Variants: buttonVariants()}

	black := Aggregate(p, &p.Variants[0])
	assert.True(t, black.InStock, "white has stock so the product is in stock")
	assert.Equal(t, 0, black.DisplayStock)
	assert.True(t, black.QuantityKnown)

	white := Aggregate(p, &p.Variants[1])
	assert.True(t, white.InStock)
	assert.Equal(t, 20, white.DisplayStock)
}

func TestAggregate_AllVariantsSoldOut(t *testing.T) {
	p := &model.Product{Variants: []model.Variant{
		{Size: "S", StockQty: 0},
		{Size: "M", StockQty: -3},
	}}

	a := Aggregate(p, &p.Variants[1])

	assert.False(t, a.InStock)
	assert.Equal(t, 0, a.DisplayStock, "negative stock is shown as zero")
}

func TestAggregate_NothingResolved(t *testing.T) {
	p := &model.Product{Variants: buttonVariants()}

	a := Aggregate(p, nil)

	assert.True(t, a.InStock)
	assert.Equal(t, 0, a.DisplayStock)
}

func TestAggregate_LegacyVariantFlag(t *testing.T) {
	p := &model.Product{Variants: []model.Variant{
		{Size: "S", StockQty: 0, InStock: boolPtr(true)},
	}}

	assert.True(t, Aggregate(p, &p.Variants[0]).InStock)
}

func TestAggregate_ProductWithoutVariants(t *testing.T) {
	tests := []struct {
		name string
		p    *model.Product
		want Availability
	}{
		{"base stock", &model.Product{BaseStockQty: intPtr(7)}, Availability{InStock: true, DisplayStock: 7, QuantityKnown: true}},
		{"sold out", &model.Product{BaseStockQty: intPtr(0)}, Availability{QuantityKnown: true}},
		{"negative base stock", &model.Product{BaseStockQty: intPtr(-2)}, Availability{QuantityKnown: true}},
		{"legacy in stock flag", &model.Product{InStock: boolPtr(true)}, Availability{InStock: true}},
		{"legacy out of stock flag", &model.Product{InStock: boolPtr(false)}, Availability{QuantityKnown: true}},
		{"stock wins over flag", &model.Product{BaseStockQty: intPtr(0), InStock: boolPtr(true)}, Availability{QuantityKnown: true}},
		{"nothing known", &model.Product{}, Availability{QuantityKnown: true}},
		{"nil product", nil, Availability{QuantityKnown: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.p, nil))
		})
	}
}
