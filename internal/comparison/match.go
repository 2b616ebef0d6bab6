package comparison

// Criterion identifies which rule matched a listing to a requested item.
type Criterion int

const (
	CriterionNone Criterion = iota
	CriterionProductID
	CriterionDisplayName
	CriterionBaseName
)

// String returns the metric label for the criterion.
func (c Criterion) String() string {
	switch c {
	case CriterionProductID:
		return "product_id"
	case CriterionDisplayName:
		return "display_name"
	case CriterionBaseName:
		return "base_name"
	default:
		return "none"
	}
}

// requestKeys holds a requested item's comparison keys, computed once per item.
type requestKeys struct {
	item        RequestedItem
	productID   string
	nameKey     string
	baseNameKey string
}

func keysFor(item RequestedItem) requestKeys {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return requestKeys{
		item:        item,
		productID:   item.ProductID,
		nameKey:     Normalize(item.ProductName),
		baseNameKey: Normalize(item.BaseProductName),
	}
}

// displayName is the label shown for the item: its name, else its base name.
func (k requestKeys) displayName() string {
	switch {
	case Normalize(k.item.ProductName) != "":
		return k.item.ProductName
	case Normalize(k.item.BaseProductName) != "":
		return k.item.BaseProductName
	default:
		return UnnamedProduct
	}
}

// matchItem applies the ordered fallback: product id, then display name, then
// base name. Ids compare as exact strings; names compare by normalized key.
func matchItem(k requestKeys, il *indexedListing) Criterion {
	if k.productID != "" && il.productID != "" && k.productID == il.productID {
		return CriterionProductID
	}
	if keysMatch(k.nameKey, il.nameKey) {
		return CriterionDisplayName
	}
	if keysMatch(k.baseNameKey, il.baseNameKey) {
		return CriterionBaseName
	}
	return CriterionNone
}

// candidate is the cheapest priced listing matching one item.
type candidate struct {
	listing   *indexedListing
	criterion Criterion
}

// cheapest returns the lowest-priced matching listing. Ties keep the first
// listing encountered, so results follow input order deterministically.
func cheapest(k requestKeys, listings []*indexedListing) (candidate, bool) {
	var best candidate
	found := false
	for _, il := range listings {
		if !il.priced {
			continue
		}
		c := matchItem(k, il)
		if c == CriterionNone {
			continue
		}
		if !found || il.price < best.listing.price {
			best = candidate{listing: il, criterion: c}
			found = true
		}
	}
	return best, found
}

// productIDFor prefers the listing's id and falls back to the request's.
func productIDFor(k requestKeys, il *indexedListing) string {
	if il.productID != "" {
		return il.productID
	}
	return k.productID
}

// productNameFor prefers the request's name and falls back to the listing's.
func productNameFor(k requestKeys, il *indexedListing) string {
	switch {
	case Normalize(k.item.ProductName) != "":
		return k.item.ProductName
	case Normalize(k.item.BaseProductName) != "":
		return k.item.BaseProductName
	default:
		return il.displayName
	}
}
