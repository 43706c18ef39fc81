package cart

import "errors"

var (
	// ErrInvalidQuantity means the quantity was not a positive number.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrStockExceeded means the requested quantity is above the
	// product's available stock.
	ErrStockExceeded = errors.New("insufficient stock available")

	// ErrEmptyCart means checkout was attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoPrompt means confirm or cancel was called with no open prompt.
	ErrNoPrompt = errors.New("no quantity prompt is open")
)
