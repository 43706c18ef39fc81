// Package cart implements the bill-in-progress: an ordered set of line
// items with stock-bound quantity validation, plus the quantity prompt
// that feeds it.
package cart

import (
	"fmt"

	"github.com/ndavydov/gopos/internal/billing"
	"github.com/shopspring/decimal"
)

// Line is one product's entry in the bill in progress. Name and Price are
// snapshotted from the product at the moment the line is created and are
// not re-read when the catalog changes.
type Line struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  decimal.Decimal
}

// Subtotal returns Price × Quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(l.Quantity)
}

// Cart holds the current bill as lines in insertion order.
// At most one line exists per product ID.
//
// Cart is single-session UI state and is not safe for concurrent use;
// the owning session serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// ValidateQuantity checks that quantity is positive and within stock.
func ValidateQuantity(quantity decimal.Decimal, stock int64) error {
	if quantity.Sign() <= 0 {
		return ErrInvalidQuantity
	}
	if quantity.GreaterThan(decimal.NewFromInt(stock)) {
		return fmt.Errorf("%w: only %d in stock", ErrStockExceeded, stock)
	}
	return nil
}

// AddOrUpdate sets the quantity for a product. If a line for the product
// already exists its quantity is replaced, not incremented; otherwise a new
// line is appended with name and price snapshotted from the product.
// The cart is unchanged on error.
func (c *Cart) AddOrUpdate(product billing.Product, quantity decimal.Decimal) error {
	if err := ValidateQuantity(quantity, product.Stock); err != nil {
		return err
	}
	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	})
	return nil
}

// Remove deletes the line for the given product ID. Removing an absent
// ID is a no-op, not an error.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used after a successful checkout and on a
// fresh session load.
func (c *Cart) Clear() {
	c.lines = nil
}

// Find returns the line for the given product ID.
func (c *Cart) Find(productID int64) (Line, bool) {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Total returns the sum of price × quantity over all lines. It is
// recomputed on every call and is zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
