package variant

import (
	"net/url"
	"path"
	"strings"

	"github.com/fekuna/trimstore-service/internal/model"
)

// Index holds the option lists derived from a product's variants. Lists keep
// first-seen order so the catalog's own ordering reaches the shopper.
type Index struct {
	axes     Axes
	variants []model.Variant

	Sizes      []string
	Colors     []string
	Quantities []string // zippers only

	images map[string][]model.Variant
}

// Options is the option set offered for one selection.
type Options struct {
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	Packs      []string `json:"packs"`
	Quantities []string `json:"quantities,omitempty"`
}

func NewIndex(variants []model.Variant, category, mainImage string) *Index {
	axes := AxesFor(category)
	ix := &Index{
		axes:     axes,
		variants: variants,
		images:   make(map[string][]model.Variant),
	}

	sizes := newOptionSet()
	colors := newOptionSet()
	quantities := newOptionSet()
	for _, v := range variants {
		if axes.Size {
			sizes.add(v.Size)
		}
		if axes.Color {
			colors.add(v.Color)
		}
		if axes.Quantity {
			quantities.add(v.Quantity)
		}
	}
	ix.Sizes = sizes.items
	ix.Colors = colors.items
	if axes.Quantity {
		ix.Quantities = quantities.items
	}

	main, mainOK := NormalizeImagePath(mainImage)
	for _, v := range variants {
		img, ok := NormalizeImagePath(v.Image)
		if !ok || (mainOK && img == main) {
			continue
		}
		ix.images[img] = append(ix.images[img], v)
	}

	return ix
}

// Packs returns the packs that exist alongside the selected size, color and
// (for zippers) quantity. It must be re-run whenever the selection changes.
func (ix *Index) Packs(sel Selection) []string {
	if !ix.axes.Pack {
		return nil
	}
	sel = sel.Normalize()

	packs := newOptionSet()
	for _, v := range ix.variants {
		if v.Pack == "" {
			continue
		}
		if !compatible(sel.Size, v.Size) || !compatible(sel.Color, v.Color) {
			continue
		}
		if ix.axes.Quantity && !compatible(sel.Quantity, v.Quantity) {
			continue
		}
		packs.add(v.Pack)
	}
	return packs.items
}

func (ix *Index) Options(sel Selection) Options {
	return Options{
		Sizes:      ix.Sizes,
		Colors:     ix.Colors,
		Packs:      ix.Packs(sel),
		Quantities: ix.Quantities,
	}
}

// VariantsForImage returns the variants whose image normalizes to the same path.
func (ix *Index) VariantsForImage(image string) []model.Variant {
	img, ok := NormalizeImagePath(image)
	if !ok {
		return nil
	}
	return ix.images[img]
}

// Images returns the normalized variant image paths in first-seen order.
func (ix *Index) Images() []string {
	out := newOrderedSet()
	for _, v := range ix.variants {
		if img, ok := NormalizeImagePath(v.Image); ok {
			if _, indexed := ix.images[img]; indexed {
				out.add(img)
			}
		}
	}
	return out.items
}

// NormalizeImagePath accepts absolute paths, http(s) URLs and data/blob URIs.
// Anything else reports false.
func NormalizeImagePath(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "data:"):
		if !strings.Contains(s, ",") {
			return "", false
		}
		return s, true
	case strings.HasPrefix(lower, "blob:"):
		if len(s) == len("blob:") {
			return "", false
		}
		return s, true
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", false
		}
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		return u.String(), true
	case strings.HasPrefix(s, "//"):
		u, err := url.Parse("https:" + s)
		if err != nil || u.Host == "" {
			return "", false
		}
		return "//" + strings.ToLower(u.Host) + u.EscapedPath(), true
	case strings.HasPrefix(s, "/"):
		return path.Clean(s), true
	}
	return "", false
}

// compatible reports whether a selected value admits an attribute. Unset on
// either side always matches.
func compatible(selected, attr string) bool {
	if selected == "" || attr == "" {
		return true
	}
	return sameAttr(selected, attr)
}

type orderedSet struct {
	fold  bool
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

// newOptionSet dedupes the way selections match, keeping the first spelling.
func newOptionSet() *orderedSet {
	s := newOrderedSet()
	s.fold = true
	return s
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	k := v
	if s.fold {
		k = foldAttr(v)
	}
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
}
