package variant

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fekuna/trimstore-service/internal/model"
)

// DeriveSKU builds PID8-SIZE-COLOR-PACK, plus -QTY when a quantity is set.
func DeriveSKU(productID string, v model.Variant) string {
	parts := []string{productPrefix(productID)}
	for _, attr := range []string{v.Size, v.Color, v.Pack, v.Quantity} {
		if s := slug(attr); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

// AssignSKUs returns a copy of variants where every variant carries a SKU that
// is unique within the product. Existing unique SKUs are kept.
func AssignSKUs(productID string, variants []model.Variant) []model.Variant {
	out := make([]model.Variant, len(variants))
	copy(out, variants)

	used := make(map[string]struct{}, len(out))
	for i := range out {
		sku := strings.TrimSpace(out[i].SKU)
		if sku == "" {
			continue
		}
		if _, dup := used[sku]; dup {
			out[i].SKU = ""
			continue
		}
		out[i].SKU = sku
		used[sku] = struct{}{}
	}

	for i := range out {
		if out[i].SKU != "" {
			continue
		}
		base := DeriveSKU(productID, out[i])
		sku := base
		for n := 2; ; n++ {
			if _, dup := used[sku]; !dup {
				break
			}
			sku = fmt.Sprintf("%s-%d", base, n)
		}
		out[i].SKU = sku
		used[sku] = struct{}{}
	}
	return out
}

func productPrefix(productID string) string {
	id := slug(productID)
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return "SKU"
	}
	return id
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
