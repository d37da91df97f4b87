package allocation

import (
	"math"
	"sort"
)

// Round discretizes a weight vector to the given number of decimal
// digits while keeping the exact-sum invariant: the integer-scaled
// outputs always add up to exactly 10^digits.
//
// Largest-remainder method: floor every scaled weight, then hand the
// units lost to flooring back to the entries with the largest
// fractional remainders. Ties break by original index (first-seen
// wins), so identical inputs always round identically.
func Round(p Weights, digits int) Weights {
	scale := math.Pow(10, float64(digits))
	units := int64(math.Round(scale))

	floors := make([]int64, len(p))
	rems := make([]float64, len(p))
	var allocated int64
	for i, v := range p {
		scaled := v * scale
		floors[i] = int64(math.Floor(scaled))
		rems[i] = scaled - float64(floors[i])
		allocated += floors[i]
	}

	// Units lost to flooring, to be redistributed.
	deficit := units - allocated

	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps equal remainders in index order.
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]] > rems[order[b]]
	})

	for i := int64(0); i < deficit && i < int64(len(order)); i++ {
		floors[order[i]]++
	}

	out := make(Weights, len(p))
	for i, fv := range floors {
		out[i] = float64(fv) / scale
	}
	return out
}
