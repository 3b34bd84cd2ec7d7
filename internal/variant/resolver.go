package variant

import (
	"github.com/fekuna/trimstore-service/internal/model"
)

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchRelaxed
	MatchRetained
	MatchDefault
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchRelaxed:
		return "relaxed"
	case MatchRetained:
		return "retained"
	case MatchDefault:
		return "default"
	default:
		return "none"
	}
}

// Resolution is the outcome of one resolve call. Variant points into the
// resolver's slice and is nil only when the product has no variants.
type Resolution struct {
	Variant *model.Variant
	Index   int
	Match   MatchKind
}

func (r Resolution) Found() bool {
	return r.Variant != nil
}

type Resolver struct {
	variants []model.Variant
	axes     Axes
}

func NewResolver(variants []model.Variant, category string) *Resolver {
	return &Resolver{variants: variants, axes: AxesFor(category)}
}

// Seed returns the selection a fresh detail view starts from: the attributes
// of the first variant.
func (r *Resolver) Seed() (Selection, Resolution) {
	if len(r.variants) == 0 {
		return Selection{}, Resolution{Index: -1}
	}
	return SelectionOf(r.variants[0]).Restrict(r.axes), r.at(0, MatchDefault)
}

// Resolve picks the variant for sel. Fallback order: exact match, relaxed
// match, the previously resolved variant, the first variant. An empty
// selection keeps the previous variant when it still exists rather than
// matching the first variant, so clearing every option does not move the
// shopper to another variant.
func (r *Resolver) Resolve(sel Selection, previous *model.Variant) Resolution {
	if len(r.variants) == 0 {
		return Resolution{Index: -1}
	}

	sel = sel.Normalize().Restrict(r.axes)
	if sel.IsEmpty() {
		if i := r.indexOf(previous); i >= 0 {
			return r.at(i, MatchRetained)
		}
		return r.at(0, MatchDefault)
	}

	if i := r.exact(sel); i >= 0 {
		return r.at(i, MatchExact)
	}
	if i := r.relaxed(sel); i >= 0 {
		return r.at(i, MatchRelaxed)
	}
	if i := r.indexOf(previous); i >= 0 {
		return r.at(i, MatchRetained)
	}
	return r.at(0, MatchDefault)
}

// exact returns the variant whose every relevant attribute agrees with sel.
// Among several, the one agreeing on the most chosen axes wins, then the one
// carrying the fewest attributes the shopper did not choose, then list order.
// That ordering is what makes SelectionOf(v) resolve back to v.
func (r *Resolver) exact(sel Selection) int {
	best, bestMatched, bestExtra := -1, -1, 0
	for i, v := range r.variants {
		ok, matched, extra := r.score(sel, v)
		if !ok {
			continue
		}
		if matched > bestMatched || (matched == bestMatched && extra < bestExtra) {
			best, bestMatched, bestExtra = i, matched, extra
		}
	}
	return best
}

// relaxed returns the first variant agreeing with the most chosen axes,
// provided it agrees with at least one.
func (r *Resolver) relaxed(sel Selection) int {
	best, bestMatched := -1, 0
	for i, v := range r.variants {
		matched := 0
		for _, p := range r.pairs(sel, v) {
			if p.selected != "" && p.attr != "" && sameAttr(p.selected, p.attr) {
				matched++
			}
		}
		if matched > bestMatched {
			best, bestMatched = i, matched
		}
	}
	return best
}

func (r *Resolver) score(sel Selection, v model.Variant) (ok bool, matched, extra int) {
	for _, p := range r.pairs(sel, v) {
		switch {
		case p.selected == "":
			if p.attr != "" {
				extra++
			}
		case p.attr == "":
			// the variant has no such axis
		case sameAttr(p.selected, p.attr):
			matched++
		default:
			return false, 0, 0
		}
	}
	return true, matched, extra
}

type axisPair struct {
	selected string
	attr     string
}

func (r *Resolver) pairs(sel Selection, v model.Variant) []axisPair {
	out := make([]axisPair, 0, 4)
	if r.axes.Size {
		out = append(out, axisPair{sel.Size, v.Size})
	}
	if r.axes.Color {
		out = append(out, axisPair{sel.Color, v.Color})
	}
	if r.axes.Pack {
		out = append(out, axisPair{sel.Pack, v.Pack})
	}
	if r.axes.Quantity {
		out = append(out, axisPair{sel.Quantity, v.Quantity})
	}
	return out
}

// indexOf finds previous in the current slice by SKU, then by attribute tuple.
// A variant that no longer exists is not retained.
func (r *Resolver) indexOf(previous *model.Variant) int {
	if previous == nil {
		return -1
	}
	if previous.SKU != "" {
		for i, v := range r.variants {
			if v.SKU == previous.SKU {
				return i
			}
		}
	}
	for i, v := range r.variants {
		if SameKey(v.Key(), previous.Key()) {
			return i
		}
	}
	return -1
}

func (r *Resolver) at(i int, kind MatchKind) Resolution {
	return Resolution{Variant: &r.variants[i], Index: i, Match: kind}
}

// SameKey compares two attribute tuples the way selections are matched:
// trimmed and case-insensitive.
func SameKey(a, b model.VariantKey) bool {
	return sameAttr(a.Size, b.Size) &&
		sameAttr(a.Color, b.Color) &&
		sameAttr(a.Pack, b.Pack) &&
		sameAttr(a.Quantity, b.Quantity)
}
