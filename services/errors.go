package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProductNotFound is returned when a product id is unknown to the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrCartItemNotFound is returned when a quantity update targets a line
	// item the session's cart does not hold.
	ErrCartItemNotFound = errors.New("cart item not found")

	// ErrInvalidQuantity rejects quantities below 1. The stored cart is left
	// unchanged.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyCart rejects checkout when the priced view has no line items,
	// whether the cart was never filled or every line was dropped because its
	// product left the catalog.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDuplicateCheckout signals that an Idempotency-Key was already used
	// to persist an order.
	ErrDuplicateCheckout = errors.New("checkout already processed")
)

// ValidationError reports which customer fields failed checkout validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid customer info: %s", strings.Join(e.Fields, ", "))
}
