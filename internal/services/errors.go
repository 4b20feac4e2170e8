package services

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrWishlistItemNotFound  = errors.New("wishlist item not found")
	ErrDuplicateWishlistItem = errors.New("item already in wishlist")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidSession        = errors.New("invalid or expired session")
	ErrEmptyOrder            = errors.New("order must contain at least one item")
	ErrInvalidQuantity       = errors.New("item quantity must be positive")
	ErrPhoneRequired         = errors.New("phone number is required for M-Pesa payments")
)

// InsufficientStockError names the product that could not be fulfilled so
// the client knows which line to adjust.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.ProductName)
}
