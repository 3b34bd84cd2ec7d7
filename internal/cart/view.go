package cart

import "github.com/shopspring/decimal"

type LineView struct {
	LineItem
	Key      string          `json:"key"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is the cart as returned to the client.
type View struct {
	CartID string          `json:"cartId"`
	Items  []LineView      `json:"items"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

func NewView(l *Ledger) *View {
	items := l.Items()
	v := &View{
		CartID: l.CartID(),
		Items:  make([]LineView, len(items)),
		Count:  l.Count(),
		Total:  l.Total(),
	}
	for i, it := range items {
		v.Items[i] = LineView{LineItem: it, Key: it.Key().String(), Subtotal: it.Subtotal()}
	}
	return v
}
