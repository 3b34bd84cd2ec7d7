package variant

import (
	"strings"

	"github.com/fekuna/trimstore-service/internal/model"
)

// Selection is the shopper's current, possibly partial, choice of attributes.
// An empty field means "not chosen".
type Selection struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Pack     string `json:"pack,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// SelectionOf returns the selection that picks v.
func SelectionOf(v model.Variant) Selection {
	return Selection{Size: v.Size, Color: v.Color, Pack: v.Pack, Quantity: v.Quantity}
}

func FromKey(k model.VariantKey) Selection {
	return Selection{Size: k.Size, Color: k.Color, Pack: k.Pack, Quantity: k.Quantity}
}

func (s Selection) Key() model.VariantKey {
	return model.VariantKey{Size: s.Size, Color: s.Color, Pack: s.Pack, Quantity: s.Quantity}
}

func (s Selection) Normalize() Selection {
	return Selection{
		Size:     strings.TrimSpace(s.Size),
		Color:    strings.TrimSpace(s.Color),
		Pack:     strings.TrimSpace(s.Pack),
		Quantity: strings.TrimSpace(s.Quantity),
	}
}

// Restrict clears the fields of axes the category ignores.
func (s Selection) Restrict(axes Axes) Selection {
	if !axes.Size {
		s.Size = ""
	}
	if !axes.Color {
		s.Color = ""
	}
	if !axes.Pack {
		s.Pack = ""
	}
	if !axes.Quantity {
		s.Quantity = ""
	}
	return s
}

func (s Selection) IsEmpty() bool {
	return s == Selection{}
}

func sameAttr(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// foldAttr is the map-key form of sameAttr.
func foldAttr(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
