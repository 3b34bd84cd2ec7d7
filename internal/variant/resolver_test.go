package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/trimstore-service/internal/model"
)

func TestResolver_Seed(t *testing.T) {
	r := NewResolver(buttonVariants(), CategoryButtons)

	sel, res := r.Seed()

	assert.Equal(t, Selection{Size: "10mm", Color: "Black", Pack: "24 Pieces"}, sel)
	require.True(t, res.Found())
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, MatchDefault, res.Match)
}

func TestResolver_Seed_NoVariants(t *testing.T) {
	sel, res := NewResolver(nil, CategoryButtons).Seed()

	assert.True(t, sel.IsEmpty())
	assert.False(t, res.Found())
	assert.Equal(t, -1, res.Index)
}

func TestResolver_SelectingColorSwitchesVariant(t *testing.T) {
	variants := buttonVariants()
	r := NewResolver(variants, CategoryButtons)

	_, seeded := r.Seed()
	require.Equal(t, "Black", seeded.Variant.Color)

	res := r.Resolve(Selection{Size: "10mm", Color: "White", Pack: "24 Pieces"}, seeded.Variant)

	require.True(t, res.Found())
	assert.Equal(t, MatchExact, res.Match)
	assert.Equal(t, "White", res.Variant.Color)
	assert.True(t, res.Variant.Price.Equal(price("55")))
	assert.Equal(t, 20, res.Variant.StockQty)
}

func TestResolver_RoundTrip(t *testing.T) {
	cases := map[string]struct {
		category string
		variants []model.Variant
	}{
		"buttons": {CategoryButtons, buttonVariants()},
		"zippers": {CategoryZippers, zipperVariants()},
		"partial attributes": {CategoryCords, []model.Variant{
			{Size: "3mm", Price: price("10")},
			{Size: "3mm", Color: "Navy", Price: price("11")},
			{Size: "3mm", Color: "Navy", Pack: "10m", Price: price("12")},
			{Color: "Navy", Price: price("9")},
		}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewResolver(tc.variants, tc.category)
			for i, v := range tc.variants {
				res := r.Resolve(SelectionOf(v), nil)
				require.True(t, res.Found())
				assert.Equal(t, i, res.Index, "variant %d did not resolve to itself", i)
			}
		})
	}
}

func TestResolver_UnsetSelectionFieldMatchesAnything(t *testing.T) {
	r := NewResolver(buttonVariants(), CategoryButtons)

	res := r.Resolve(Selection{Color: "White"}, nil)

	assert.Equal(t, MatchExact, res.Match)
	assert.Equal(t, 1, res.Index)
}

func TestResolver_VariantWithoutAxisIsSatisfied(t *testing.T) {
	variants := []model.Variant{
		{Size: "2cm", Color: "Black", Price: price("5")},
		{Size: "2cm", Color: "White", Price: price("5")},
	}
	r := NewResolver(variants, CategoryButtons)

	res := r.Resolve(Selection{Size: "2cm", Color: "White", Pack: "100 Pieces"}, nil)

	assert.Equal(t, MatchExact, res.Match)
	assert.Equal(t, 1, res.Index)
}

func TestResolver_RelaxedMatchOnImpossibleCombination(t *testing.T) {
	r := NewResolver(zipperVariants(), CategoryZippers)

	// Red only exists as Loose/10 and Bundle/50, never Bundle/10.
	res := r.Resolve(Selection{Size: "5 inch", Color: "Red", Pack: "Bundle", Quantity: "10"}, nil)

	require.True(t, res.Found())
	assert.Equal(t, MatchRelaxed, res.Match)
	assert.Equal(t, 0, res.Index, "first variant agreeing on the most axes wins")
}

func TestResolver_RetainsPreviousWhenNothingMatches(t *testing.T) {
	variants := buttonVariants()
	r := NewResolver(variants, CategoryButtons)
	previous := variants[1]

	res := r.Resolve(Selection{Size: "12mm", Color: "Gold"}, &previous)

	assert.Equal(t, MatchRetained, res.Match)
	assert.Equal(t, 1, res.Index)
}

func TestResolver_RelaxedPrefersMoreAgreeingAxes(t *testing.T) {
	r := NewResolver(zipperVariants(), CategoryZippers)

	// earlier variants agree on one or two axes, the last on size, color and quantity
	res := r.Resolve(Selection{Size: "7 inch", Color: "Red", Pack: "Loose", Quantity: "50"}, nil)

	assert.Equal(t, MatchRelaxed, res.Match)
	assert.Equal(t, 3, res.Index)
}

func TestResolver_EmptySelectionKeepsPrevious(t *testing.T) {
	variants := buttonVariants()
	r := NewResolver(variants, CategoryButtons)
	previous := variants[1]

	res := r.Resolve(Selection{}, &previous)

	assert.Equal(t, MatchRetained, res.Match)
	assert.Equal(t, 1, res.Index)

	assert.Equal(t, 0, r.Resolve(Selection{}, nil).Index)
}

func TestResolver_DefaultsToFirstWithoutPrevious(t *testing.T) {
	r := NewResolver(buttonVariants(), CategoryButtons)

	res := r.Resolve(Selection{Size: "12mm", Color: "Gold"}, nil)

	assert.Equal(t, MatchDefault, res.Match)
	assert.Equal(t, 0, res.Index)
}

func TestResolver_StalePreviousIsNotRetained(t *testing.T) {
	r := NewResolver(buttonVariants(), CategoryButtons)
	stale := model.Variant{Size: "30mm", Color: "Gold", SKU: "GONE"}

	res := r.Resolve(Selection{Size: "12mm"}, &stale)

	assert.Equal(t, MatchDefault, res.Match)
	assert.Equal(t, 0, res.Index)
}

func TestResolver_ElasticIgnoresPack(t *testing.T) {
	variants := []model.Variant{
		{Size: "1 inch", Color: "White", Pack: "Roll", Price: price("80"), StockQty: 3},
		{Size: "1 inch", Color: "Black", Pack: "Spool", Price: price("82"), StockQty: 5},
	}
	r := NewResolver(variants, CategoryElastic)

	res := r.Resolve(Selection{Size: "1 inch", Color: "Black", Pack: "Roll"}, nil)

	assert.Equal(t, MatchExact, res.Match)
	assert.Equal(t, 1, res.Index)
}

func TestResolver_QuantityOnlyHonouredForZippers(t *testing.T) {
	variants := []model.Variant{
		{Size: "5 inch", Color: "Black", Quantity: "10", Price: price("30")},
		{Size: "5 inch", Color: "Black", Quantity: "50", Price: price("120")},
	}

	zip := NewResolver(variants, CategoryZippers).Resolve(Selection{Size: "5 inch", Color: "Black", Quantity: "50"}, nil)
	assert.Equal(t, 1, zip.Index)

	btn := NewResolver(variants, CategoryButtons).Resolve(Selection{Size: "5 inch", Color: "Black", Quantity: "50"}, nil)
	assert.Equal(t, 0, btn.Index, "quantity is not an axis for buttons")
}

func TestResolver_MatchIsCaseAndSpaceInsensitive(t *testing.T) {
	r := NewResolver(buttonVariants(), CategoryButtons)

	res := r.Resolve(Selection{Color: "  white "}, nil)

	assert.Equal(t, MatchExact, res.Match)
	assert.Equal(t, 1, res.Index)
}

func TestResolver_NoVariants(t *testing.T) {
	res := NewResolver([]model.Variant{}, CategoryButtons).Resolve(Selection{Size: "10mm"}, nil)

	assert.False(t, res.Found())
	assert.Equal(t, MatchNone, res.Match)
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "exact", MatchExact.String())
	assert.Equal(t, "relaxed", MatchRelaxed.String())
	assert.Equal(t, "retained", MatchRetained.String())
	assert.Equal(t, "default", MatchDefault.String())
	assert.Equal(t, "none", MatchNone.String())
}
