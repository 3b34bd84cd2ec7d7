package inventory

import (
	"errors"
	"fmt"

	"github.com/fekuna/trimstore-service/internal/model"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUNotFound       = errors.New("variant sku not found")
	ErrInsufficientStock = errors.New("insufficient inventory")
	ErrBusy              = errors.New("system busy, please try again later (lock)")
	ErrConcurrentUpdate  = errors.New("product changed during stock adjustment")
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")
)

// ApplyDelta changes the stock of one variant of p (by SKU) or, for a
// product without variants, its base stock. A product without a recorded
// base stock starts from zero. Stock never goes below zero.
func ApplyDelta(p *model.Product, sku string, delta int) (before, after int, err error) {
	if p.HasVariants() {
		if sku == "" {
			return 0, 0, fmt.Errorf("%w: product %s has variants", ErrSKUNotFound, p.ID)
		}
		for i := range p.Variants {
			if p.Variants[i].SKU != sku {
				continue
			}
			before = p.Variants[i].StockQty
			after = before + delta
			if after < 0 {
				return before, before, ErrInsufficientStock
			}
			p.Variants[i].StockQty = after
			p.Variants[i].InStock = nil
			return before, after, nil
		}
		return 0, 0, fmt.Errorf("%w: %s", ErrSKUNotFound, sku)
	}

	if p.BaseStockQty != nil {
		before = *p.BaseStockQty
	}
	after = before + delta
	if after < 0 {
		return before, before, ErrInsufficientStock
	}
	p.BaseStockQty = &after
	p.InStock = nil
	return before, after, nil
}
