// Package variant resolves a shopper's option selection to one product variant
// and derives the option lists and stock figures shown next to it.
//
// Everything here is a pure function over a product's variant slice. Callers
// own the presentation state and re-run resolution whenever the selection or
// the variant slice changes.
package variant
