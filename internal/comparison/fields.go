package comparison

import (
	"strings"
)

// Record is a loosely shaped row as it arrives from a database, a request body
// or a catalog file. Field names vary between sources; the alias chains below
// resolve them once into typed values.
type Record map[string]any

// Alias chains, most specific first.
var (
	listingIDFields          = []string{"listing_id", "listingId", "id"}
	listingProductIDFields   = []string{"product_id", "productId", "productID", "id", "listing_product_id"}
	listingDisplayNameFields = []string{
		"catalog_display_name", "catalog_product_name",
		"display_name", "displayName",
		"product_name", "productName",
		"base_product_name", "baseProductName",
		"name", "title", "item_name", "itemName",
	}
	listingBaseNameFields = []string{"catalog_base_product_name", "base_product_name", "baseProductName", "base_name"}
	vendorIDFields        = []string{"vendor_id", "vendorId", "vendorID", "vendor"}
	vendorNameFields      = []string{"vendor_name", "vendorName", "store_name", "shop_name", "seller", "supplier"}
	priceFields           = []string{"price", "listing_price", "amount", "unit_price"}
	stockFields           = []string{"stock_quantity", "stockQuantity", "quantity"}
	availabilityFields    = []string{"is_available", "isAvailable", "in_stock", "inStock"}
	aliasFields           = []string{"aliases", "alias"}

	itemProductIDFields = []string{"product_id", "productId", "productID"}
	nestedIDFields      = []string{"product_id", "productId", "productID", "id"}
	itemNameFields      = []string{
		"display_name", "displayName",
		"product_name", "productName",
		"base_product_name", "baseProductName",
		"name",
	}
	itemBaseNameFields = []string{"base_product_name", "baseProductName"}
	itemQuantityFields = []string{"quantity_value", "quantity"}
)

// first returns the first populated field in the chain. Whitespace-only
// strings count as absent so the chain keeps falling through.
func (r Record) first(fields []string) (any, bool) {
	for _, f := range fields {
		v, ok := r[f]
		if !ok || v == nil {
			continue
		}
		if strings.TrimSpace(stringify(v)) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// String resolves the chain to a display string, "" when nothing is populated.
func (r Record) String(fields []string) string {
	v, ok := r.first(fields)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// ListingFromRecord resolves a raw listing row into a typed VendorListing.
func ListingFromRecord(r Record) VendorListing {
	listing := VendorListing{
		ListingID:       r.String(listingIDFields),
		ProductID:       r.String(listingProductIDFields),
		DisplayName:     r.String(listingDisplayNameFields),
		BaseProductName: r.String(listingBaseNameFields),
		Aliases:         aliasesOf(r),
		VendorID:        r.String(vendorIDFields),
		VendorName:      r.String(vendorNameFields),
		IsAvailable:     true,
	}
	if v, ok := r.first(priceFields); ok {
		listing.Price = coercePrice(v)
	}
	if v, ok := r.first(stockFields); ok {
		if n, ok := coerceInt(v); ok {
			listing.StockQuantity = n
		}
	}
	if v, ok := r.first(availabilityFields); ok {
		if b, ok := coerceBool(v); ok {
			listing.IsAvailable = b
		}
	}
	return listing
}

// ItemFromRecord resolves a raw shopping-list row into a RequestedItem.
// A nested "product" object is consulted for names when present.
func ItemFromRecord(r Record) RequestedItem {
	item := RequestedItem{
		ProductID:       r.String(itemProductIDFields),
		ProductName:     r.String(itemNameFields),
		BaseProductName: r.String(itemBaseNameFields),
		Quantity:        1,
	}
	if product := nestedRecord(r["product"]); product != nil {
		if item.ProductName == "" {
			item.ProductName = product.String(itemNameFields)
		}
		if item.BaseProductName == "" {
			item.BaseProductName = product.String(itemBaseNameFields)
		}
		if item.ProductID == "" {
			item.ProductID = product.String(nestedIDFields)
		}
	}
	if v, ok := r.first(itemQuantityFields); ok {
		if n, ok := coerceInt(v); ok && n > 0 {
			item.Quantity = n
		}
	}
	return item
}

// ListingsFromRecords resolves a batch of listing rows.
func ListingsFromRecords(records []Record) []VendorListing {
	out := make([]VendorListing, 0, len(records))
	for _, r := range records {
		out = append(out, ListingFromRecord(r))
	}
	return out
}

// ItemsFromRecords resolves a batch of shopping-list rows.
func ItemsFromRecords(records []Record) []RequestedItem {
	out := make([]RequestedItem, 0, len(records))
	for _, r := range records {
		out = append(out, ItemFromRecord(r))
	}
	return out
}

func nestedRecord(v any) Record {
	switch m := v.(type) {
	case Record:
		return m
	case map[string]any:
		return Record(m)
	}
	return nil
}

func aliasesOf(r Record) []string {
	v, ok := r.first(aliasFields)
	if !ok {
		return nil
	}
	var raw []string
	switch a := v.(type) {
	case []string:
		raw = a
	case []any:
		for _, e := range a {
			raw = append(raw, stringify(e))
		}
	default:
		raw = strings.Split(stringify(v), ",")
	}
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PriceFieldNames returns the price alias chain, for loaders that need to
// pre-parse locale-formatted amounts.
func PriceFieldNames() []string {
	out := make([]string, len(priceFields))
	copy(out, priceFields)
	return out
}
