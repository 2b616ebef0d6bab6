package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_CheapestPerItem(t *testing.T) {
	idx := BuildIndex([]VendorListing{
		listing("A", "Rice", 100),
		listing("A", "Bread", 50),
		listing("B", "Rice", 90),
		listing("C", "Bread", 55),
	})
	items := []RequestedItem{
		{ProductName: "Rice", Quantity: 2},
		{ProductName: "Bread", Quantity: 1},
	}

	mega := Allocate(items, idx)

	require.Len(t, mega.Items, 2)
	assert.Equal(t, "B", mega.Items[0].Vendor)
	assert.Equal(t, 180.0, mega.Items[0].Total)
	assert.Equal(t, "A", mega.Items[1].Vendor)
	assert.Equal(t, 230.0, mega.TotalCost)
}

func TestAllocate_OmitsUnmatched(t *testing.T) {
	idx := BuildIndex([]VendorListing{listing("A", "Rice", 1)})

	mega := Allocate([]RequestedItem{{ProductName: "Caviar"}, {ProductName: "Rice"}}, idx)

	require.Len(t, mega.Items, 1)
	assert.Equal(t, "Rice", mega.Items[0].ProductName)
	assert.Equal(t, 1.0, mega.TotalCost)
}

func TestAllocate_TieKeepsFirstVendor(t *testing.T) {
	idx := BuildIndex([]VendorListing{
		listing("First", "Rice", 7),
		listing("Second", "Rice", 7),
	})

	mega := Allocate([]RequestedItem{{ProductName: "Rice"}}, idx)

	require.Len(t, mega.Items, 1)
	assert.Equal(t, "First", mega.Items[0].Vendor)
}

func TestAllocate_UnknownVendorLabel(t *testing.T) {
	idx := BuildIndex([]VendorListing{listing("", "Rice", 7)})

	mega := Allocate([]RequestedItem{{ProductName: "Rice"}}, idx)

	require.Len(t, mega.Items, 1)
	assert.Equal(t, UnknownVendor, mega.Items[0].Vendor)
}

func TestAllocate_EmptyIndex(t *testing.T) {
	mega := Allocate([]RequestedItem{{ProductName: "Rice"}}, BuildIndex(nil))

	assert.NotNil(t, mega.Items)
	assert.Empty(t, mega.Items)
	assert.Equal(t, 0.0, mega.TotalCost)
}
