package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/trimstore-service/internal/model"
)

var (
	ErrDuplicateVariant = errors.New("duplicate variant")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrNegativeStock    = errors.New("stock quantity cannot be negative")
)

// FieldError points at the offending variant by its position in the list.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("variantPricing[%d].%s: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

type ValidationErrors []*FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is lets errors.Is look through the collected field errors.
func (e ValidationErrors) Is(target error) bool {
	for _, fe := range e {
		if errors.Is(fe.Err, target) {
			return true
		}
	}
	return false
}

// Validate enforces the write-boundary rules for a variant list: positive
// price, non-negative stock and no two variants the category's axes cannot
// tell apart. An elastic variant differing only by pack is a duplicate.
func Validate(category string, variants []model.Variant) error {
	var errs ValidationErrors
	axes := AxesFor(category)
	seen := make(map[model.VariantKey]int, len(variants))

	for i, v := range variants {
		if !v.Price.IsPositive() {
			errs = append(errs, &FieldError{Index: i, Field: "price", Err: ErrInvalidPrice})
		}
		if v.StockQty < 0 {
			errs = append(errs, &FieldError{Index: i, Field: "stockQty", Err: ErrNegativeStock})
		}

		k := canonicalKey(v.Key(), axes)
		if first, dup := seen[k]; dup {
			errs = append(errs, &FieldError{
				Index: i,
				Field: "attributes",
				Err:   fmt.Errorf("%w: same attributes as variantPricing[%d]", ErrDuplicateVariant, first),
			})
			continue
		}
		seen[k] = i
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func canonicalKey(k model.VariantKey, axes Axes) model.VariantKey {
	norm := func(on bool, s string) string {
		if !on {
			return ""
		}
		return foldAttr(s)
	}
	return model.VariantKey{
		Size:     norm(axes.Size, k.Size),
		Color:    norm(axes.Color, k.Color),
		Pack:     norm(axes.Pack, k.Pack),
		Quantity: norm(axes.Quantity, k.Quantity),
	}
}
