package formulas

// CalculateMaxDrawdown calculates the maximum peak-to-trough loss of a
// price or equity series.
//
//	Drawdown = (peak - value) / peak
//
// Returned as a positive fraction (0.25 = 25% below the peak), or nil
// with fewer than two points.
func CalculateMaxDrawdown(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := prices[0]

	for _, price := range prices {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			drawdown := (peak - price) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}
