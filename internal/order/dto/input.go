package dto

type PlaceOrderInput struct {
	CartID          string `json:"-" validate:"required"`
	ContactName     string `json:"contactName" validate:"required,max=200"`
	ContactEmail    string `json:"contactEmail" validate:"required,email"`
	ShippingAddress string `json:"shippingAddress" validate:"required,max=1000"`
}

type UpdateStatusInput struct {
	ID     string `json:"-" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}
