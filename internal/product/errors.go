package product

import "errors"

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidStock = errors.New("stock quantity cannot be negative")

	ErrConcurrentUpdate = errors.New("product was modified concurrently")
)
