package comparison

// Allocate buys each requested item from whichever vendor is cheapest for it.
// Items with no matching listing anywhere are left out of the allocation.
//
// The total is a lower bound: it ignores minimum orders and delivery fees,
// which the checkout flow adds once per cart.
func Allocate(items []RequestedItem, idx *Index) MegaOption {
	return allocate(items, idx, nil)
}

func allocate(items []RequestedItem, idx *Index, stats *matchStats) MegaOption {
	option := MegaOption{Items: make([]MegaItem, 0, len(items))}

	for _, item := range items {
		k := keysFor(item)
		best, ok := cheapest(k, idx.listings)
		if !ok {
			stats.record(CriterionNone)
			continue
		}
		stats.record(best.criterion)

		price := best.listing.price
		line := MegaItem{
			ProductID:   productIDFor(k, best.listing),
			ProductName: productNameFor(k, best.listing),
			Quantity:    k.item.Quantity,
			Vendor:      best.listing.vendorName,
			Price:       price,
			Total:       price * float64(k.item.Quantity),
		}
		option.Items = append(option.Items, line)
		option.TotalCost += line.Total
	}

	return option
}
