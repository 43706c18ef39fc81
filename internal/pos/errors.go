// Package pos orchestrates a point-of-sale session: the catalog snapshot,
// the cart, the quantity prompt and the checkout flow against the billing API.
package pos

import "errors"

var (
	// ErrProductNotFound means the referenced product is not in the
	// current catalog snapshot.
	ErrProductNotFound = errors.New("product not found")

	// ErrCheckoutInFlight means a checkout for this session is already
	// being submitted.
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)
