// Package catalog holds the per-session snapshot of sellable products.
package catalog

import (
	"strings"

	"github.com/ndavydov/gopos/internal/billing"
)

// Catalog is the last-fetched product list. It is read-only between
// reloads: a reload replaces the snapshot wholesale, nothing mutates
// individual products in place.
//
// Catalog is not safe for concurrent use; the owning session serializes
// access.
type Catalog struct {
	products []billing.Product
	byID     map[int64]billing.Product
}

func New() *Catalog {
	return &Catalog{byID: make(map[int64]billing.Product)}
}

// Replace swaps in a freshly fetched product list.
func (c *Catalog) Replace(products []billing.Product) {
	c.products = make([]billing.Product, len(products))
	copy(c.products, products)
	c.byID = make(map[int64]billing.Product, len(products))
	for _, p := range products {
		c.byID[p.ID] = p
	}
}

// Find returns the product with the given ID.
func (c *Catalog) Find(id int64) (billing.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Products returns the snapshot in fetch order.
func (c *Catalog) Products() []billing.Product {
	out := make([]billing.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter returns products whose name contains query, case-insensitively.
// An empty query returns the full snapshot.
func (c *Catalog) Filter(query string) []billing.Product {
	if query == "" {
		return c.Products()
	}
	q := strings.ToLower(query)
	var out []billing.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of products in the snapshot.
func (c *Catalog) Len() int {
	return len(c.products)
}
