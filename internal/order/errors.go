package order

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrLineUnavailable   = errors.New("cart item is no longer available")
	ErrInsufficientStock = errors.New("not enough stock for cart item")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
