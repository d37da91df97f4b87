package evaluation

import "math"

// drawdownBudget is the tolerated maximum drawdown fraction; only the
// excess above it is penalized.
const drawdownBudget = 0.40

// Metrics holds the two evaluator-supplied risk/return numbers for one
// candidate allocation. MaxDrawdown is a percentage (20 means 20%).
type Metrics struct {
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Loss maps the two metrics to the scalar being minimized:
//
//	loss = -sharpe + max(0, maxdrawdown/100 - 0.4)
//
// Higher Sharpe lowers the loss; drawdowns beyond the 40% budget add a
// linear penalty. Inputs are taken as-is, no bounds are imposed.
func Loss(sharpe, maxDrawdown float64) float64 {
	return -sharpe + math.Max(0, maxDrawdown/100-drawdownBudget)
}
