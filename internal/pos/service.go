package pos

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ndavydov/gopos/internal/billing"
	"github.com/ndavydov/gopos/internal/cart"
	"github.com/ndavydov/gopos/internal/view"
)

// Gateway is the slice of the billing API the POS flow needs.
type Gateway interface {
	// ListProducts fetches the full product list.
	ListProducts(ctx context.Context) ([]billing.Product, error)

	// SubmitBill records a completed sale.
	SubmitBill(ctx context.Context, bill billing.BillCreate) (*billing.Bill, error)
}

// Service implements the POS screen operations on top of a session.
type Service struct {
	gateway Gateway
	logger  *slog.Logger
}

func NewService(gateway Gateway, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  logger.With("component", "pos"),
	}
}

// LoadPOS starts a fresh POS screen: reloads the catalog from the billing
// API, empties the cart and discards any pending prompt.
func (s *Service) LoadPOS(ctx context.Context, sess *Session) (view.POSView, error) {
	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return view.POSView{}, fmt.Errorf("failed to load POS screen: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Catalog.Replace(products)
	sess.Cart.Clear()
	sess.Prompt.Cancel()
	return view.BuildPOS(sess.Catalog, sess.Cart, ""), nil
}

// ShowPOS renders the POS screen with the given search filter.
func (s *Service) ShowPOS(sess *Session, query string) view.POSView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return view.BuildPOS(sess.Catalog, sess.Cart, query)
}

// OpenPrompt opens the quantity dialog for a product. The quantity field
// is pre-filled with the existing line's quantity when the product is
// already in the cart. Returns ErrProductNotFound, leaving all state
// unchanged, when the ID is not in the current catalog.
func (s *Service) OpenPrompt(sess *Session, productID int64, editMode bool) (view.PromptView, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	product, ok := sess.Catalog.Find(productID)
	if !ok {
		return view.PromptView{}, fmt.Errorf("cannot open prompt for product %d: %w", productID, ErrProductNotFound)
	}

	var existing *cart.Line
	if line, found := sess.Cart.Find(productID); found {
		existing = &line
	}
	sess.Prompt.Open(product, existing, editMode)
	return view.BuildPrompt(sess.Prompt), nil
}

// ConfirmPrompt commits the pending prompt's quantity into the cart. On a
// validation failure the prompt stays open, the cart is untouched and the
// error carries the user-facing message.
func (s *Service) ConfirmPrompt(sess *Session, rawQuantity string) (view.POSView, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.Prompt.Confirm(rawQuantity, sess.Cart); err != nil {
		return view.POSView{}, err
	}
	return view.BuildPOS(sess.Catalog, sess.Cart, ""), nil
}

// CancelPrompt discards the pending prompt without touching the cart.
func (s *Service) CancelPrompt(sess *Session) view.POSView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Prompt.Cancel()
	return view.BuildPOS(sess.Catalog, sess.Cart, "")
}

// RemoveLine drops a line from the bill. An absent ID is a no-op.
func (s *Service) RemoveLine(sess *Session, productID int64) view.POSView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Cart.Remove(productID)
	return view.BuildPOS(sess.Catalog, sess.Cart, "")
}

// Checkout submits the current bill to the billing API. An empty cart
// fails with ErrEmptyCart before any network call. While a submission is
// in flight the session stays usable for prompt edits, but a second
// checkout is rejected with ErrCheckoutInFlight. On success the cart is
// cleared and the catalog reloaded (the server decrements stock); on
// failure the cart is left untouched and the user must retry explicitly.
func (s *Service) Checkout(ctx context.Context, sess *Session) (view.POSView, error) {
	sess.mu.Lock()
	if sess.checkoutInFlight {
		sess.mu.Unlock()
		return view.POSView{}, ErrCheckoutInFlight
	}
	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		sess.mu.Unlock()
		return view.POSView{}, cart.ErrEmptyCart
	}
	total := sess.Cart.Total()
	sess.checkoutInFlight = true
	sess.mu.Unlock()

	bill := billing.BillCreate{
		Items:       make([]billing.BillItem, len(lines)),
		TotalAmount: total,
	}
	for i, l := range lines {
		bill.Items[i] = billing.BillItem{
			Product:  billing.ProductRef{ID: l.ProductID},
			Quantity: l.Quantity,
			Price:    l.Price,
		}
	}

	created, submitErr := s.gateway.SubmitBill(ctx, bill)

	var products []billing.Product
	var listErr error
	if submitErr == nil {
		products, listErr = s.gateway.ListProducts(ctx)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.checkoutInFlight = false

	if submitErr != nil {
		return view.POSView{}, fmt.Errorf("checkout failed: %w", submitErr)
	}

	s.logger.Info("Bill submitted", "bill_id", created.ID, "total", total.StringFixed(2), "lines", len(lines))
	sess.Cart.Clear()
	if listErr != nil {
		// The sale is recorded; keep the stale catalog rather than fail the checkout.
		s.logger.Warn("Catalog reload after checkout failed", "error", listErr)
	} else {
		sess.Catalog.Replace(products)
	}
	return view.BuildPOS(sess.Catalog, sess.Cart, ""), nil
}
