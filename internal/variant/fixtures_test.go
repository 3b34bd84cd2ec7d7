package variant

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/trimstore-service/internal/model"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

// buttonVariants is the two-colour button card used across the tests.
func buttonVariants() []model.Variant {
	return []model.Variant{
		{Size: "10mm", Color: "Black", Pack: "24 Pieces", Price: price("50"), StockQty: 0, SKU: "B-10-BLK-24"},
		{Size: "10mm", Color: "White", Pack: "24 Pieces", Price: price("55"), StockQty: 20, SKU: "B-10-WHT-24"},
	}
}

func zipperVariants() []model.Variant {
	return []model.Variant{
		{Size: "5 inch", Color: "Black", Pack: "Bundle", Quantity: "10", Price: price("30"), StockQty: 4, Image: "/img/zip-black.jpg"},
		{Size: "5 inch", Color: "Black", Pack: "Bundle", Quantity: "50", Price: price("120"), StockQty: 2, Image: "/img/zip-black.jpg"},
		{Size: "5 inch", Color: "Red", Pack: "Loose", Quantity: "10", Price: price("32"), StockQty: 0, Image: "/img/zip-red.jpg"},
		{Size: "7 inch", Color: "Red", Pack: "Bundle", Quantity: "50", Price: price("140"), StockQty: 9, Image: "not a path"},
	}
}
