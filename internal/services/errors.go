package services

import "errors"

// UserError carries a message that is safe to show to the caller.
type UserError struct {
	Message string
}

func (e UserError) Error() string {
	return e.Message
}

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrCatalogUnavailable    = errors.New("catalog unavailable")
)
