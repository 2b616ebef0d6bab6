package comparison

const (
	// UnknownVendor is the display name used when a listing carries no vendor name.
	UnknownVendor = "Unknown Vendor"

	// UnnamedProduct is the display name used when no name field is populated.
	UnnamedProduct = "Unnamed Product"
)

// RequestedItem is one line of a shopping list.
type RequestedItem struct {
	ProductID       string // Opaque external identifier, may be empty
	ProductName     string // Display name, used as a fallback match key
	BaseProductName string // Base product name, last match fallback
	Quantity        int    // Requested quantity (defaults to 1)
}

// VendorListing is one vendor's offer for a product.
type VendorListing struct {
	ListingID       string
	ProductID       string
	DisplayName     string
	BaseProductName string
	Aliases         []string // Informational only, never matched
	VendorID        string
	VendorName      string
	Price           *float64 // nil means no usable price
	StockQuantity   int      // Informational only
	IsAvailable     bool     // Informational only
}

// VendorItem is a requested item fulfilled by a single vendor.
type VendorItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// VendorResult is the cost of buying the whole list from one vendor.
type VendorResult struct {
	Vendor           string       `json:"vendor"`
	TotalCost        float64      `json:"totalCost"`
	AvailableItems   int          `json:"availableItems"`
	TotalItems       int          `json:"totalItems"`
	Items            []VendorItem `json:"items"`
	UnavailableItems []string     `json:"unavailableItems"`
}

// MegaItem is a requested item allocated to its cheapest vendor.
type MegaItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Vendor      string  `json:"vendor"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// MegaOption is the per-item cheapest allocation across all vendors.
// Items with no match anywhere are omitted rather than reported.
type MegaOption struct {
	TotalCost float64    `json:"totalCost"`
	Items     []MegaItem `json:"items"`
}

// Result is the full comparison returned to callers.
type Result struct {
	VendorOptions []VendorResult `json:"vendorOptions"`
	MegaOption    MegaOption     `json:"megaOption"`
}

// EmptyResult returns the canonical result for an empty list or a missing snapshot.
func EmptyResult() Result {
	return Result{
		VendorOptions: []VendorResult{},
		MegaOption:    MegaOption{TotalCost: 0, Items: []MegaItem{}},
	}
}

// IsEmpty reports whether the result carries no vendor options and no allocations.
// Callers should treat an empty result as insufficient data, not as zero cost.
func (r Result) IsEmpty() bool {
	return len(r.VendorOptions) == 0 && len(r.MegaOption.Items) == 0
}
