package variant

import "github.com/fekuna/trimstore-service/internal/model"

// Availability is what the detail page shows about stock.
type Availability struct {
	InStock      bool `json:"inStock"`
	DisplayStock int  `json:"displayStock"`
	// QuantityKnown is false when a legacy record only carries an inStock flag.
	QuantityKnown bool `json:"quantityKnown"`
}

// Aggregate computes product availability. For variant products InStock is
// true when any variant has stock and DisplayStock is the resolved variant's
// stock (0 when nothing is resolved).
func Aggregate(p *model.Product, resolved *model.Variant) Availability {
	if p == nil {
		return Availability{QuantityKnown: true}
	}

	if p.HasVariants() {
		a := Availability{InStock: AnyInStock(p.Variants), QuantityKnown: true}
		if resolved != nil {
			a.DisplayStock = clamp(resolved.StockQty)
		}
		return a
	}

	if p.BaseStockQty != nil {
		qty := clamp(*p.BaseStockQty)
		return Availability{InStock: qty > 0, DisplayStock: qty, QuantityKnown: true}
	}

	// TODO: drop once the stock backfill gives every legacy product a stockQty.
	if p.InStock != nil && *p.InStock {
		return Availability{InStock: true}
	}
	return Availability{QuantityKnown: true}
}

// AnyInStock honours the legacy per-variant inStock flag for rows written
// before stock quantities were tracked.
func AnyInStock(variants []model.Variant) bool {
	for _, v := range variants {
		if v.StockQty > 0 || (v.InStock != nil && *v.InStock) {
			return true
		}
	}
	return false
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
