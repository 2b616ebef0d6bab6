// Package listings supplies listing snapshots and shopping lists to the
// comparison engine and guards the backing store with a circuit breaker.
package listings

import (
	"context"
	"errors"

	"github.com/sabsesasta/price-service/internal/comparison"
)

// ErrCircuitOpen is returned when the breaker rejects a snapshot load.
var ErrCircuitOpen = errors.New("listing source circuit open")

// ListingSource loads the current set of vendor listings.
type ListingSource interface {
	// Listings returns every vendor-joined listing. The returned slice is
	// owned by the caller.
	Listings(ctx context.Context) ([]comparison.VendorListing, error)
}

// ItemSource loads the items of one user's shopping list.
type ItemSource interface {
	// ListItems resolves the list's items. It returns an error when the list
	// does not exist or is not owned by userID.
	ListItems(ctx context.Context, listID, userID string) ([]comparison.RequestedItem, error)
}

// ListingSourceFunc adapts a function to ListingSource.
type ListingSourceFunc func(ctx context.Context) ([]comparison.VendorListing, error)

// Listings calls f(ctx).
func (f ListingSourceFunc) Listings(ctx context.Context) ([]comparison.VendorListing, error) {
	return f(ctx)
}
