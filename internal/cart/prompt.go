package cart

import (
	"github.com/ndavydov/gopos/internal/billing"
	"github.com/shopspring/decimal"
)

// Prompt is the short-lived quantity dialog for one product. It has two
// states, closed and open; a failed confirm keeps it open so the caller
// can redisplay the error.
type Prompt struct {
	open     bool
	product  billing.Product
	editMode bool
	initial  decimal.Decimal
}

func NewPrompt() *Prompt {
	return &Prompt{}
}

// Open binds the prompt to a product. The quantity field is pre-filled
// with the existing line's quantity when one exists, else 1. editMode
// only changes how the dialog is titled.
func (p *Prompt) Open(product billing.Product, existing *Line, editMode bool) {
	p.open = true
	p.product = product
	p.editMode = editMode
	if existing != nil {
		p.initial = existing.Quantity
	} else {
		p.initial = decimal.NewFromInt(1)
	}
}

// Confirm parses the raw quantity input, validates it against the bound
// product's stock and commits it into the cart. On any failure the prompt
// stays open and the cart is untouched; on success the prompt closes.
func (p *Prompt) Confirm(rawQuantity string, c *Cart) error {
	if !p.open {
		return ErrNoPrompt
	}
	quantity, err := decimal.NewFromString(rawQuantity)
	if err != nil {
		return ErrInvalidQuantity
	}
	if err := c.AddOrUpdate(p.product, quantity); err != nil {
		return err
	}
	p.reset()
	return nil
}

// Cancel discards the pending interaction without touching the cart.
func (p *Prompt) Cancel() {
	p.reset()
}

func (p *Prompt) reset() {
	*p = Prompt{}
}

// IsOpen reports whether a prompt interaction is pending.
func (p *Prompt) IsOpen() bool {
	return p.open
}

// Product returns the product the prompt is bound to.
func (p *Prompt) Product() billing.Product {
	return p.product
}

// EditMode reports whether the prompt was opened to edit an existing line.
func (p *Prompt) EditMode() bool {
	return p.editMode
}

// Initial returns the pre-filled quantity.
func (p *Prompt) Initial() decimal.Decimal {
	return p.initial
}
