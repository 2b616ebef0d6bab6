package comparison

// matchStats counts how comparisons were resolved, for metrics and logs.
type matchStats struct {
	byCriterion map[Criterion]int
	unmatched   int
}

func newMatchStats() *matchStats {
	return &matchStats{byCriterion: make(map[Criterion]int)}
}

func (s *matchStats) record(c Criterion) {
	if s == nil {
		return
	}
	if c == CriterionNone {
		s.unmatched++
		return
	}
	s.byCriterion[c]++
}

// EvaluateVendor prices the whole requested list at a single vendor.
// Every requested item lands either in Items or in UnavailableItems.
func EvaluateVendor(vendor Vendor, items []RequestedItem, idx *Index) VendorResult {
	return evaluateVendor(vendor, items, idx, nil)
}

func evaluateVendor(vendor Vendor, items []RequestedItem, idx *Index, stats *matchStats) VendorResult {
	result := VendorResult{
		Vendor:           vendor.DisplayName,
		TotalItems:       len(items),
		Items:            make([]VendorItem, 0, len(items)),
		UnavailableItems: make([]string, 0),
	}
	listings := idx.byVendor[vendor.Key]

	for _, item := range items {
		k := keysFor(item)
		best, ok := cheapest(k, listings)
		if !ok {
			stats.record(CriterionNone)
			result.UnavailableItems = append(result.UnavailableItems, k.displayName())
			continue
		}
		stats.record(best.criterion)

		price := best.listing.price
		line := VendorItem{
			ProductID:   productIDFor(k, best.listing),
			ProductName: productNameFor(k, best.listing),
			Quantity:    k.item.Quantity,
			Price:       price,
			Total:       price * float64(k.item.Quantity),
		}
		result.Items = append(result.Items, line)
		result.TotalCost += line.Total
	}

	result.AvailableItems = len(result.Items)
	return result
}
