package cart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fekuna/trimstore-service/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive, use remove to drop a line")
	ErrInvalidItem     = errors.New("line item needs a product id")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrOutOfStock      = errors.New("variant is out of stock")
	ErrInvalidKey      = errors.New("malformed cart line key")
)

// LineItem is one cart line. Price is frozen at the time of the first add.
type LineItem struct {
	ProductID  string           `json:"productId"`
	VariantKey model.VariantKey `json:"variantKey"`
	SKU        string           `json:"sku,omitempty"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	Quantity   int              `json:"quantity"`
	Image      string           `json:"image,omitempty"`
	Category   string           `json:"category,omitempty"`
}

func (l LineItem) Key() Key {
	return Key{ProductID: l.ProductID, Variant: l.VariantKey}
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Key is the merge identity of a line: the product plus the variant tuple.
type Key struct {
	ProductID string
	Variant   model.VariantKey
}

// Equal compares keys ignoring case and surrounding whitespace.
func (k Key) Equal(o Key) bool {
	return k.canonical() == o.canonical()
}

// String encodes the key for use in URLs: escaped fields joined by "|".
func (k Key) String() string {
	c := k.canonical()
	parts := []string{c.ProductID, c.Variant.Size, c.Variant.Color, c.Variant.Pack, c.Variant.Quantity}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "|")
}

func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	for i, p := range parts {
		v, err := url.QueryUnescape(p)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		parts[i] = v
	}
	if parts[0] == "" {
		return Key{}, fmt.Errorf("%w: missing product id", ErrInvalidKey)
	}
	return Key{
		ProductID: parts[0],
		Variant:   model.VariantKey{Size: parts[1], Color: parts[2], Pack: parts[3], Quantity: parts[4]},
	}, nil
}

func (k Key) canonical() Key {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return Key{
		ProductID: strings.TrimSpace(k.ProductID),
		Variant: model.VariantKey{
			Size:     norm(k.Variant.Size),
			Color:    norm(k.Variant.Color),
			Pack:     norm(k.Variant.Pack),
			Quantity: norm(k.Variant.Quantity),
		},
	}
}

// Ledger is the ordered line list of one cart. It is loaded once by Open and
// written back to its store after every mutation. A Ledger is not safe for
// concurrent use; each request opens its own.
type Ledger struct {
	store  Store
	cartID string

	loadedVersion int
	items         []LineItem
}

// Open loads the ledger of cartID. A cart that was never saved opens empty.
func Open(ctx context.Context, store Store, cartID string) (*Ledger, error) {
	raw, err := store.Get(ctx, cartID, NamespaceKey)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", cartID, err)
	}

	version, items, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", cartID, err)
	}

	return &Ledger{store: store, cartID: cartID, loadedVersion: version, items: items}, nil
}

func (l *Ledger) CartID() string { return l.cartID }

// LoadedVersion reports the format version found in the store. Zero means
// the cart is still in the unversioned format and is rewritten on the next
// mutation.
func (l *Ledger) LoadedVersion() int { return l.loadedVersion }

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int { return len(l.items) }

func (l *Ledger) Find(key Key) (LineItem, bool) {
	if i := l.indexOf(key); i >= 0 {
		return l.items[i], true
	}
	return LineItem{}, false
}

// Add merges item into the line with the same key or appends it. When stock
// is non-nil the resulting quantity never exceeds it.
func (l *Ledger) Add(ctx context.Context, item LineItem, stock *int) (LineItem, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return LineItem{}, ErrInvalidItem
	}
	if item.Quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}

	next := l.Items()
	i := indexOf(next, item.Key())

	qty := item.Quantity
	if i >= 0 {
		qty += next[i].Quantity
	}
	if stock != nil {
		if *stock <= 0 {
			return LineItem{}, ErrOutOfStock
		}
		qty = min(qty, *stock)
	}

	if i >= 0 {
		next[i].Quantity = qty
	} else {
		item.Quantity = qty
		next = append(next, item)
		i = len(next) - 1
	}

	if err := l.commit(ctx, next); err != nil {
		return LineItem{}, err
	}
	return next[i], nil
}

// UpdateQuantity overwrites the quantity of an existing line.
func (l *Ledger) UpdateQuantity(ctx context.Context, key Key, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	next := l.Items()
	i := indexOf(next, key)
	if i < 0 {
		return ErrLineNotFound
	}
	next[i].Quantity = qty
	return l.commit(ctx, next)
}

// Remove drops the line with key. Removing an absent key is not an error.
func (l *Ledger) Remove(ctx context.Context, key Key) error {
	i := l.indexOf(key)
	if i < 0 {
		return nil
	}
	next := make([]LineItem, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	return l.commit(ctx, next)
}

func (l *Ledger) Clear(ctx context.Context) error {
	return l.commit(ctx, []LineItem{})
}

// Total is recomputed on every call.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the number of units across all lines.
func (l *Ledger) Count() int {
	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

func (l *Ledger) commit(ctx context.Context, next []LineItem) error {
	raw, err := encode(next)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", l.cartID, err)
	}
	if err := l.store.Set(ctx, l.cartID, NamespaceKey, raw); err != nil {
		return fmt.Errorf("save cart %s: %w", l.cartID, err)
	}
	l.items = next
	l.loadedVersion = formatVersion
	return nil
}

func (l *Ledger) indexOf(key Key) int {
	return indexOf(l.items, key)
}

func indexOf(items []LineItem, key Key) int {
	for i, it := range items {
		if it.Key().Equal(key) {
			return i
		}
	}
	return -1
}
