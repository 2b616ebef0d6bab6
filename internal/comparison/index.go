package comparison

// Vendor identifies one vendor in the index.
type Vendor struct {
	Key         string // Normalized vendor name
	DisplayName string // First-seen display name
}

// indexedListing carries a listing with its comparison keys computed once.
type indexedListing struct {
	listing     VendorListing
	position    int // Input order, used for stable tie-breaking
	productID   string
	displayName string
	nameKey     string
	baseNameKey string
	vendorName  string
	vendorKey   string
	price       float64
	priced      bool
}

// Index groups a listing snapshot by vendor. It is built per comparison and
// never shared between calls.
type Index struct {
	listings []*indexedListing
	vendors  []Vendor
	byVendor map[string][]*indexedListing
	excluded int
	unnamed  int
}

// BuildIndex indexes a listing snapshot. Listings without a usable price are
// kept (their vendor still appears) but never fulfil an item.
func BuildIndex(listings []VendorListing) *Index {
	idx := &Index{
		listings: make([]*indexedListing, 0, len(listings)),
		byVendor: make(map[string][]*indexedListing),
	}

	for i, l := range listings {
		vendorName := l.VendorName
		if Normalize(vendorName) == "" {
			vendorName = UnknownVendor
			idx.unnamed++
		}
		displayName := l.DisplayName
		if Normalize(displayName) == "" {
			displayName = UnnamedProduct
		}

		il := &indexedListing{
			listing:     l,
			position:    i,
			productID:   l.ProductID,
			displayName: displayName,
			nameKey:     Normalize(l.DisplayName),
			baseNameKey: Normalize(l.BaseProductName),
			vendorName:  vendorName,
			vendorKey:   Normalize(vendorName),
		}
		if l.Price != nil {
			il.price = *l.Price
			il.priced = true
		} else {
			idx.excluded++
		}

		if _, seen := idx.byVendor[il.vendorKey]; !seen {
			idx.vendors = append(idx.vendors, Vendor{Key: il.vendorKey, DisplayName: vendorName})
		}
		idx.byVendor[il.vendorKey] = append(idx.byVendor[il.vendorKey], il)
		idx.listings = append(idx.listings, il)
	}

	return idx
}

// Vendors returns vendors in first-seen order.
func (idx *Index) Vendors() []Vendor {
	out := make([]Vendor, len(idx.vendors))
	copy(out, idx.vendors)
	return out
}

// ListingsFor returns the listings of one vendor in input order.
func (idx *Index) ListingsFor(vendorKey string) []VendorListing {
	indexed := idx.byVendor[Normalize(vendorKey)]
	out := make([]VendorListing, 0, len(indexed))
	for _, il := range indexed {
		out = append(out, il.listing)
	}
	return out
}

// Len returns the number of indexed listings.
func (idx *Index) Len() int {
	return len(idx.listings)
}

// ExcludedCount returns how many listings carry no usable price.
func (idx *Index) ExcludedCount() int {
	return idx.excluded
}

// UnknownVendorCount returns how many listings fell back to UnknownVendor.
func (idx *Index) UnknownVendorCount() int {
	return idx.unnamed
}
