package listings

import (
	"context"

	"github.com/sabsesasta/price-service/internal/comparison"
)

// StaticSource serves a fixed snapshot, typically loaded from a catalog file.
type StaticSource struct {
	listings []comparison.VendorListing
}

// NewStaticSource creates a source over a fixed snapshot.
func NewStaticSource(listings []comparison.VendorListing) *StaticSource {
	return &StaticSource{listings: listings}
}

// Listings returns a copy of the snapshot.
func (s *StaticSource) Listings(ctx context.Context) ([]comparison.VendorListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]comparison.VendorListing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}
