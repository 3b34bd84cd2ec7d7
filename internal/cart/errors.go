package cart

import "errors"

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrVariantUnavailable = errors.New("selected combination is not available")
)
