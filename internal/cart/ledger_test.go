package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/trimstore-service/internal/cart"
	"github.com/fekuna/trimstore-service/internal/cart/storage"
	"github.com/fekuna/trimstore-service/internal/model"
)

var whiteKey = model.VariantKey{Size: "10mm", Color: "White", Pack: "24 Pieces"}

func whiteButton(qty int) cart.LineItem {
	return cart.LineItem{
		ProductID:  "P1",
		VariantKey: whiteKey,
		Name:       "Shirt Button",
		Price:      decimal.RequireFromString("55"),
		Quantity:   qty,
		Category:   "buttons",
	}
}

func stock(n int) *int { return &n }

func openLedger(t *testing.T, s cart.Store) *cart.Ledger {
	t.Helper()
	l, err := cart.Open(context.Background(), s, "client-1")
	require.NoError(t, err)
	return l
}

func TestLedger_AddMergesSameKey(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	_, err := l.Add(ctx, whiteButton(2), nil)
	require.NoError(t, err)

	second := whiteButton(3)
	second.Price = decimal.RequireFromString("60")
	line, err := l.Add(ctx, second, nil)
	require.NoError(t, err)

	require.Len(t, l.Items(), 1)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, l.Items()[0].Price.Equal(decimal.RequireFromString("55")), "price stays frozen at first add")
}

func TestLedger_KeyIgnoresCaseAndWhitespace(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	_, err := l.Add(ctx, whiteButton(1), nil)
	require.NoError(t, err)

	other := whiteButton(1)
	other.VariantKey.Color = " white"
	_, err = l.Add(ctx, other, nil)
	require.NoError(t, err)

	require.Len(t, l.Items(), 1)
	assert.Equal(t, 2, l.Items()[0].Quantity)
}

func TestLedger_DistinctKeysAppendInOrder(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	black := whiteButton(1)
	black.VariantKey.Color = "Black"
	plain := cart.LineItem{ProductID: "P2", Name: "Cord", Price: decimal.RequireFromString("10"), Quantity: 4}

	for _, it := range []cart.LineItem{whiteButton(1), black, plain} {
		_, err := l.Add(ctx, it, nil)
		require.NoError(t, err)
	}

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "White", items[0].VariantKey.Color)
	assert.Equal(t, "Black", items[1].VariantKey.Color)
	assert.Equal(t, "P2", items[2].ProductID)
	assert.True(t, items[2].VariantKey.IsZero())
}

func TestLedger_AddClampsToStock(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	line, err := l.Add(ctx, whiteButton(8), stock(5))
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	line, err = l.Add(ctx, whiteButton(3), stock(6))
	require.NoError(t, err)
	assert.Equal(t, 6, line.Quantity)

	_, err = l.Add(ctx, whiteButton(1), stock(0))
	assert.ErrorIs(t, err, cart.ErrOutOfStock)
	assert.Equal(t, 6, l.Items()[0].Quantity)
}

func TestLedger_AddRejectsBadItems(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	_, err := l.Add(ctx, whiteButton(0), nil)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = l.Add(ctx, cart.LineItem{Quantity: 1}, nil)
	assert.ErrorIs(t, err, cart.ErrInvalidItem)

	assert.Equal(t, 0, l.Len())
}

func TestLedger_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())
	_, err := l.Add(ctx, whiteButton(2), nil)
	require.NoError(t, err)
	key := whiteButton(0).Key()

	require.NoError(t, l.UpdateQuantity(ctx, key, 9))
	assert.Equal(t, 9, l.Items()[0].Quantity)

	assert.ErrorIs(t, l.UpdateQuantity(ctx, key, 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, l.UpdateQuantity(ctx, key, -1), cart.ErrInvalidQuantity)
	assert.Equal(t, 9, l.Items()[0].Quantity, "rejected update leaves the line untouched")

	missing := cart.Key{ProductID: "nope"}
	assert.ErrorIs(t, l.UpdateQuantity(ctx, missing, 1), cart.ErrLineNotFound)
}

func TestLedger_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())
	_, err := l.Add(ctx, whiteButton(2), nil)
	require.NoError(t, err)
	other := cart.LineItem{ProductID: "P2", Name: "Cord", Price: decimal.RequireFromString("10"), Quantity: 1}
	_, err = l.Add(ctx, other, nil)
	require.NoError(t, err)

	key := whiteButton(0).Key()
	require.NoError(t, l.Remove(ctx, key))
	once := l.Items()
	require.NoError(t, l.Remove(ctx, key))

	assert.Equal(t, once, l.Items())
	require.Len(t, once, 1)
	assert.Equal(t, "P2", once[0].ProductID)
}

func TestLedger_TotalAndClear(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, storage.NewMemoryStore())

	assert.True(t, l.Total().IsZero())

	_, err := l.Add(ctx, whiteButton(2), nil)
	require.NoError(t, err)
	_, err = l.Add(ctx, cart.LineItem{ProductID: "P2", Name: "Cord", Price: decimal.RequireFromString("12.25"), Quantity: 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, "146.75", l.Total().StringFixed(2))
	assert.Equal(t, 5, l.Count())

	require.NoError(t, l.Clear(ctx))
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Total().IsZero())
}

func TestLedger_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	l := openLedger(t, s)
	_, err := l.Add(ctx, whiteButton(2), nil)
	require.NoError(t, err)

	raw, err := s.Get(ctx, "client-1", cart.NamespaceKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":1`)

	reopened := openLedger(t, s)
	assert.Equal(t, l.Items(), reopened.Items())
	assert.Equal(t, 1, reopened.LoadedVersion())
}

func TestLedger_MigratesLegacyArray(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	legacy := `[
		{"productId":"P1","variantKey":{"size":"10mm","color":"White"},"name":"Button","price":55,"quantity":2},
		{"productId":"P1","variantKey":{"size":"10mm","color":"white"},"name":"Button","price":55,"quantity":1},
		{"productId":"","name":"ghost","price":1,"quantity":1},
		{"productId":"P2","name":"Cord","price":"10.50","quantity":0}
	]`
	require.NoError(t, s.Set(ctx, "client-1", cart.NamespaceKey, []byte(legacy)))

	l := openLedger(t, s)
	assert.Equal(t, 0, l.LoadedVersion())
	require.Len(t, l.Items(), 1)
	assert.Equal(t, 3, l.Items()[0].Quantity)

	_, err := l.Add(ctx, cart.LineItem{ProductID: "P3", Name: "Zip", Price: decimal.RequireFromString("30"), Quantity: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, l.LoadedVersion())

	raw, err := s.Get(ctx, "client-1", cart.NamespaceKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":1`)
}

func TestLedger_RejectsFutureFormat(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "client-1", cart.NamespaceKey, []byte(`{"version":9,"items":[]}`)))

	_, err := cart.Open(ctx, s, "client-1")
	assert.Error(t, err)
}

type failingStore struct{ cart.Store }

func (failingStore) Set(context.Context, string, string, []byte) error {
	return errors.New("disk full")
}

func TestLedger_FailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, failingStore{storage.NewMemoryStore()})

	_, err := l.Add(ctx, whiteButton(1), nil)
	require.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestKey_StringRoundTrip(t *testing.T) {
	k := cart.Key{ProductID: "P1", Variant: model.VariantKey{Size: "5 inch", Color: "Red|Blue", Quantity: "50"}}

	parsed, err := cart.ParseKey(k.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(k))

	_, err = cart.ParseKey("P1|only-two")
	assert.ErrorIs(t, err, cart.ErrInvalidKey)
	_, err = cart.ParseKey("||||")
	assert.ErrorIs(t, err, cart.ErrInvalidKey)
}
