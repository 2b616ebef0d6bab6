package comparison

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withID(l VendorListing, id string) VendorListing {
	l.ProductID = id
	return l
}

func riceAndBread() ([]RequestedItem, []VendorListing) {
	items := []RequestedItem{
		{ProductName: "Rice", Quantity: 2},
		{ProductName: "Bread", Quantity: 1},
	}
	listings := []VendorListing{
		withID(listing("Vendor A", "Rice", 100), "p-rice"),
		withID(listing("Vendor A", "Bread", 50), "p-bread"),
		withID(listing("Vendor B", "Rice", 90), "p-rice"),
	}
	return items, listings
}

func TestCompare_TwoVendors(t *testing.T) {
	items, listings := riceAndBread()

	result := Compare(items, listings)

	require.Len(t, result.VendorOptions, 2)
	b, a := result.VendorOptions[0], result.VendorOptions[1]

	assert.Equal(t, "Vendor B", b.Vendor)
	assert.Equal(t, 180.0, b.TotalCost)
	assert.Equal(t, 1, b.AvailableItems)
	assert.Equal(t, []string{"Bread"}, b.UnavailableItems)

	assert.Equal(t, "Vendor A", a.Vendor)
	assert.Equal(t, 250.0, a.TotalCost)
	assert.Equal(t, 2, a.AvailableItems)
	assert.Empty(t, a.UnavailableItems)

	assert.Equal(t, 230.0, result.MegaOption.TotalCost)
	require.Len(t, result.MegaOption.Items, 2)
	assert.Equal(t, "Vendor B", result.MegaOption.Items[0].Vendor)
	assert.Equal(t, "Vendor A", result.MegaOption.Items[1].Vendor)
}

func TestCompare_NoMatchAnywhere(t *testing.T) {
	_, listings := riceAndBread()

	result := Compare([]RequestedItem{{ProductName: "Saffron", Quantity: 1}}, listings)

	require.Len(t, result.VendorOptions, 2)
	for _, v := range result.VendorOptions {
		assert.Equal(t, []string{"Saffron"}, v.UnavailableItems)
		assert.Equal(t, 0.0, v.TotalCost)
	}
	assert.Empty(t, result.MegaOption.Items)
	assert.NotNil(t, result.MegaOption.Items)
	assert.Equal(t, 0.0, result.MegaOption.TotalCost)
}

func TestCompare_BaseNameFallback(t *testing.T) {
	l := listing("Vendor A", "Sunrise Jasmine Rice 5kg", 12)
	l.BaseProductName = "Rice"
	stats := newMatchStats()

	idx := BuildIndex([]VendorListing{l})
	result := evaluateVendor(idx.Vendors()[0], []RequestedItem{{ProductName: "Jasmine rice", BaseProductName: "rice"}}, idx, stats)

	assert.Equal(t, 1, result.AvailableItems)
	assert.Equal(t, 1, stats.byCriterion[CriterionBaseName])
	assert.Equal(t, 0, stats.byCriterion[CriterionDisplayName])
}

func TestCompare_AliasesNeverMatch(t *testing.T) {
	basmati := listing("Vendor A", "Basmati 5kg", 10)
	basmati.Aliases = []string{"rice"}
	items := []RequestedItem{{ProductName: "Rice", Quantity: 1}}

	result := Compare(items, []VendorListing{basmati, listing("Vendor B", "Rice", 20)})

	require.Len(t, result.VendorOptions, 2)
	b, a := result.VendorOptions[0], result.VendorOptions[1]
	assert.Equal(t, "Vendor A", a.Vendor)
	assert.Equal(t, 0, a.AvailableItems)
	assert.Equal(t, []string{"Rice"}, a.UnavailableItems)
	assert.Equal(t, "Vendor B", b.Vendor)
	assert.Equal(t, 20.0, b.TotalCost)

	assert.Equal(t, 20.0, result.MegaOption.TotalCost)
	require.Len(t, result.MegaOption.Items, 1)
	assert.Equal(t, "Vendor B", result.MegaOption.Items[0].Vendor)
}

func TestCompare_EmptyList(t *testing.T) {
	_, listings := riceAndBread()

	for _, items := range [][]RequestedItem{nil, {}} {
		result := Compare(items, listings)
		assert.Equal(t, EmptyResult(), result)
		assert.True(t, result.IsEmpty())

		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.JSONEq(t, `{"vendorOptions":[],"megaOption":{"totalCost":0,"items":[]}}`, string(data))
	}
}

func TestCompare_SameVendorTwoSKUs(t *testing.T) {
	listings := []VendorListing{
		withID(listing("Vendor A", "Olive Oil", 9.5), "oil-premium"),
		withID(listing("Vendor A", "olive oil", 7.25), "oil-basic"),
	}

	result := Compare([]RequestedItem{{ProductName: "Olive Oil", Quantity: 2}}, listings)

	require.Len(t, result.VendorOptions, 1)
	require.Len(t, result.VendorOptions[0].Items, 1)
	assert.Equal(t, "oil-basic", result.VendorOptions[0].Items[0].ProductID)
	assert.Equal(t, 14.5, result.VendorOptions[0].TotalCost)

	require.Len(t, result.MegaOption.Items, 1)
	assert.Equal(t, "oil-basic", result.MegaOption.Items[0].ProductID)
	assert.Equal(t, 7.25, result.MegaOption.Items[0].Price)
}

func TestCompare_UnrelatedVendorStillListed(t *testing.T) {
	items, listings := riceAndBread()
	listings = append(listings, listing("Hardware Hut", "Hammer", 20))

	result := Compare(items, listings)

	require.Len(t, result.VendorOptions, 3)
	hut := result.VendorOptions[0]
	assert.Equal(t, "Hardware Hut", hut.Vendor)
	assert.Equal(t, 0.0, hut.TotalCost)
	assert.Equal(t, 0, hut.AvailableItems)
	assert.Equal(t, []string{"Rice", "Bread"}, hut.UnavailableItems)
}

func TestCompare_NoListings(t *testing.T) {
	result := Compare([]RequestedItem{{ProductName: "Rice"}}, nil)

	assert.Empty(t, result.VendorOptions)
	assert.NotNil(t, result.VendorOptions)
	assert.Empty(t, result.MegaOption.Items)
	assert.True(t, result.IsEmpty())
}

func TestCompare_StableSortOnTies(t *testing.T) {
	listings := []VendorListing{
		listing("Zeta", "Rice", 5),
		listing("Alpha", "Rice", 5),
		listing("Mid", "Rice", 3),
	}

	result := Compare([]RequestedItem{{ProductName: "Rice"}}, listings)

	require.Len(t, result.VendorOptions, 3)
	assert.Equal(t, "Mid", result.VendorOptions[0].Vendor)
	assert.Equal(t, "Zeta", result.VendorOptions[1].Vendor)
	assert.Equal(t, "Alpha", result.VendorOptions[2].Vendor)
}

func TestCompare_Properties(t *testing.T) {
	items := []RequestedItem{
		{ProductID: "p-1", ProductName: "Rice", Quantity: 3},
		{ProductName: "Bread"},
		{ProductName: "Milk", BaseProductName: "milk", Quantity: 2},
		{ProductName: "Saffron"},
		{},
	}
	listings := []VendorListing{
		withID(listing("North", "Basmati Rice", 4.2), "p-1"),
		listing("North", "Bread", 1.1),
		listing("South", "Bread", 0.9),
		listing("South", "Skimmed Milk", 1.35),
		{VendorName: "South", DisplayName: "Saffron"},
		withID(listing("East", "Rice", 3.8), "p-1"),
		listing("East", "milk", 1.4),
		listing("", "Bread", 1.0),
	}
	listings[3].BaseProductName = "Milk"

	result := Compare(items, listings)
	require.Len(t, result.VendorOptions, 4)

	// Totals consistency and coverage accounting.
	for _, v := range result.VendorOptions {
		sum := 0.0
		for _, it := range v.Items {
			assert.InDelta(t, it.Price*float64(it.Quantity), it.Total, 1e-9)
			sum += it.Total
		}
		assert.InDelta(t, sum, v.TotalCost, 1e-9)
		assert.Equal(t, v.TotalItems, v.AvailableItems+len(v.UnavailableItems))
		assert.Equal(t, len(items), v.TotalItems)
	}

	// Ascending sort.
	for i := 1; i < len(result.VendorOptions); i++ {
		assert.LessOrEqual(t, result.VendorOptions[i-1].TotalCost, result.VendorOptions[i].TotalCost)
	}

	// Mega never pays more per unit than a vendor carrying the item.
	for _, m := range result.MegaOption.Items {
		for _, v := range result.VendorOptions {
			for _, it := range v.Items {
				if it.ProductName == m.ProductName {
					assert.LessOrEqual(t, m.Price, it.Price, "%s at %s", m.ProductName, v.Vendor)
				}
			}
		}
	}

	// Determinism.
	first, err := json.Marshal(result)
	require.NoError(t, err)
	second, err := json.Marshal(Compare(items, listings))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCompare_Golden(t *testing.T) {
	items, listings := riceAndBread()

	data, err := json.MarshalIndent(Compare(items, listings), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "two_vendors", append(data, '\n'))
}

func TestComparer_Run(t *testing.T) {
	items, listings := riceAndBread()
	c := NewComparer(nil)

	result := c.Run(context.Background(), items, listings)
	assert.Equal(t, Compare(items, listings), result)

	empty := c.Run(context.Background(), nil, listings)
	assert.Equal(t, EmptyResult(), empty)

	none := c.Run(context.Background(), items, nil)
	assert.True(t, none.IsEmpty())
}
