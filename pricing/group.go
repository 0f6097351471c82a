package pricing

// groupTiers is the fixed volume-discount table, ascending by quantity.
// The highest threshold at or below the purchased quantity wins.
var groupTiers = []struct {
	minQuantity     int
	discountPercent int64
}{
	{5, 10},
	{10, 15},
	{20, 20},
}

// GroupDiscountPercent returns the volume-discount percentage for a
// purchased quantity, or 0 below the lowest threshold. Threshold bounds
// are inclusive.
func GroupDiscountPercent(quantity int) int64 {
	if quantity <= 0 {
		return 0
	}
	var percent int64
	for _, t := range groupTiers {
		if quantity >= t.minQuantity {
			percent = t.discountPercent
		}
	}
	return percent
}
