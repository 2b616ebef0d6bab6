package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateVendor(t *testing.T) {
	idx := BuildIndex([]VendorListing{
		listing("Shop", "Rice", 100),
		listing("Shop", "Rice", 80),
		listing("Shop", "Bread", 50),
		listing("Other", "Milk", 10),
	})
	items := []RequestedItem{
		{ProductName: "Rice", Quantity: 2},
		{ProductName: "Milk", Quantity: 1},
		{ProductName: "Bread", Quantity: 0},
	}

	result := EvaluateVendor(Vendor{Key: "shop", DisplayName: "Shop"}, items, idx)

	assert.Equal(t, "Shop", result.Vendor)
	assert.Equal(t, 3, result.TotalItems)
	assert.Equal(t, 2, result.AvailableItems)
	assert.Equal(t, []string{"Milk"}, result.UnavailableItems)

	require.Len(t, result.Items, 2)
	assert.Equal(t, VendorItem{ProductName: "Rice", Quantity: 2, Price: 80, Total: 160}, result.Items[0])
	assert.Equal(t, VendorItem{ProductName: "Bread", Quantity: 1, Price: 50, Total: 50}, result.Items[1])
	assert.Equal(t, 210.0, result.TotalCost)
}

func TestEvaluateVendor_TieKeepsFirstListing(t *testing.T) {
	first := listing("Shop", "Rice", 5)
	first.ProductID = "first"
	second := listing("Shop", "Rice", 5)
	second.ProductID = "second"
	idx := BuildIndex([]VendorListing{first, second})

	result := EvaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductName: "rice"}}, idx)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "first", result.Items[0].ProductID)
}

func TestEvaluateVendor_UnavailableLabels(t *testing.T) {
	idx := BuildIndex([]VendorListing{listing("Shop", "Rice", 1)})
	items := []RequestedItem{
		{ProductName: "Tea"},
		{BaseProductName: "Coffee"},
		{ProductID: "sku-404"},
	}

	result := EvaluateVendor(idx.Vendors()[0], items, idx)

	assert.Equal(t, []string{"Tea", "Coffee", UnnamedProduct}, result.UnavailableItems)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
	assert.Equal(t, 0.0, result.TotalCost)
}

func TestEvaluateVendor_UnpricedListingNeverFulfils(t *testing.T) {
	idx := BuildIndex([]VendorListing{
		{VendorName: "Shop", DisplayName: "Rice"},
	})

	result := EvaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductName: "Rice"}}, idx)

	assert.Equal(t, 0, result.AvailableItems)
	assert.Equal(t, []string{"Rice"}, result.UnavailableItems)
}

func TestEvaluateVendor_OutOfStockStillMatches(t *testing.T) {
	l := listing("Shop", "Rice", 3)
	l.IsAvailable = false
	l.StockQuantity = 0
	idx := BuildIndex([]VendorListing{l})

	result := EvaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductName: "Rice"}}, idx)

	assert.Equal(t, 1, result.AvailableItems)
}

func TestEvaluateVendor_ProductIDFallsBackToRequest(t *testing.T) {
	idx := BuildIndex([]VendorListing{listing("Shop", "Rice", 2)})

	result := EvaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductID: "req-1", ProductName: "Rice"}}, idx)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "req-1", result.Items[0].ProductID)
}

func TestEvaluateVendor_NameFallsBackToListing(t *testing.T) {
	l := listing("Shop", "Long Grain Rice", 2)
	l.ProductID = "sku-1"
	idx := BuildIndex([]VendorListing{l})

	result := EvaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductID: "sku-1"}}, idx)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Long Grain Rice", result.Items[0].ProductName)
}
