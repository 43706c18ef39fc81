// Package view builds the structured view-models for every screen.
// Builders are pure functions of store contents: no side effects, and
// rendering twice with unchanged state produces identical output. A thin
// client-side renderer turns these into markup, so no HTML is assembled
// here and product names need no escaping on this side.
package view

import (
	"github.com/ndavydov/gopos/internal/billing"
	"github.com/ndavydov/gopos/internal/cart"
	"github.com/ndavydov/gopos/internal/catalog"
)

// ProductCard is one product tile on the POS screen.
type ProductCard struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

// CartLine is one line of the current bill as displayed.
type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

// CartView is the bill panel: lines in insertion order plus the running total.
type CartView struct {
	Lines []CartLine `json:"lines"`
	Total string     `json:"total"`
}

// POSView is the full POS screen.
type POSView struct {
	Query    string        `json:"query"`
	Products []ProductCard `json:"products"`
	Cart     CartView      `json:"cart"`
}

// PromptView is the quantity dialog.
type PromptView struct {
	Title     string `json:"title"`
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Stock     int64  `json:"stock"`
	Quantity  string `json:"quantity"`
	EditMode  bool   `json:"editMode"`
}

// ProductRow is one row of the product management table.
type ProductRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

// ProductListView is the product management screen.
type ProductListView struct {
	Products []ProductRow `json:"products"`
}

// DashboardView is the dashboard screen.
type DashboardView struct {
	TotalSales  string `json:"totalSales"`
	TotalOrders int64  `json:"totalOrders"`
}

// BuildPOS renders the POS screen from the current catalog and cart,
// applying the case-insensitive name filter.
func BuildPOS(c *catalog.Catalog, ct *cart.Cart, query string) POSView {
	filtered := c.Filter(query)
	products := make([]ProductCard, len(filtered))
	for i, p := range filtered {
		products[i] = ProductCard{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.StringFixed(2),
			Stock: p.Stock,
		}
	}

	lines := ct.Lines()
	cartLines := make([]CartLine, len(lines))
	for i, l := range lines {
		cartLines[i] = CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity.String(),
			UnitPrice: l.Price.StringFixed(2),
			Subtotal:  l.Subtotal().StringFixed(2),
		}
	}

	return POSView{
		Query:    query,
		Products: products,
		Cart: CartView{
			Lines: cartLines,
			Total: ct.Total().StringFixed(2),
		},
	}
}

// BuildPrompt renders the quantity dialog for an open prompt.
func BuildPrompt(p *cart.Prompt) PromptView {
	title := "Add to Cart"
	if p.EditMode() {
		title = "Edit Quantity"
	}
	product := p.Product()
	return PromptView{
		Title:     title,
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price.StringFixed(2),
		Stock:     product.Stock,
		Quantity:  p.Initial().String(),
		EditMode:  p.EditMode(),
	}
}

// BuildProductList renders the product management screen.
func BuildProductList(products []billing.Product) ProductListView {
	rows := make([]ProductRow, len(products))
	for i, p := range products {
		rows[i] = ProductRow{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.StringFixed(2),
			Stock: p.Stock,
		}
	}
	return ProductListView{Products: rows}
}

// BuildDashboard renders the dashboard screen.
func BuildDashboard(stats billing.Stats) DashboardView {
	return DashboardView{
		TotalSales:  stats.TotalSales.StringFixed(2),
		TotalOrders: stats.TotalOrders,
	}
}
