package cart

import (
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/variant"
)

// LineFor resolves sel against p and freezes the result into a line of qty
// units. The returned stock is the clamp limit for Ledger.Add; it is nil when
// only a legacy inStock flag says the item is available.
//
// An empty selection picks the variant a fresh detail page shows. Any other
// selection has to match a variant exactly, so a line never silently lands on
// a different combination than the one the shopper asked for.
func LineFor(p *model.Product, sel variant.Selection, qty int) (LineItem, *int, error) {
	line := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.BasePrice,
		Quantity:  qty,
		Image:     p.ImageURL,
		Category:  p.Category,
	}

	if !p.HasVariants() {
		if !variant.Aggregate(p, nil).InStock {
			return LineItem{}, nil, ErrOutOfStock
		}
		return line, p.BaseStockQty, nil
	}

	r := variant.NewResolver(p.Variants, p.Category)
	sel = sel.Normalize().Restrict(variant.AxesFor(p.Category))

	var res variant.Resolution
	if sel.IsEmpty() {
		_, res = r.Seed()
	} else {
		res = r.Resolve(sel, nil)
		if res.Match != variant.MatchExact {
			return LineItem{}, nil, ErrVariantUnavailable
		}
	}

	v := res.Variant
	line.VariantKey = variant.SelectionOf(*v).Normalize().Key()
	line.SKU = v.SKU
	line.Price = v.Price
	if img, ok := variant.NormalizeImagePath(v.Image); ok {
		line.Image = img
	}

	if v.StockQty <= 0 && v.InStock != nil && *v.InStock {
		return line, nil, nil
	}
	stock := v.StockQty
	return line, &stock, nil
}
