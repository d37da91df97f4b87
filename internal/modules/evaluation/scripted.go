package evaluation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/alloctuner/internal/modules/allocation"
	"github.com/aristath/alloctuner/pkg/formulas"
)

// Scripted computes the two risk metrics from a local daily close-price
// history instead of prompting a human. Used for unattended runs and
// end-to-end tests: the same weights against the same history always
// produce the same metrics.
//
// The candidate is treated as a fixed-weight, daily-rebalanced
// portfolio over the history: the portfolio return on day t is the
// weighted sum of the asset returns on day t.
type Scripted struct {
	history      map[string][]float64 // symbol -> daily closes
	riskFreeRate float64
	log          zerolog.Logger
}

// NewScripted creates a scripted evaluator over the given price
// history. riskFreeRate is annual, as a decimal (0.02 for 2%).
func NewScripted(history map[string][]float64, riskFreeRate float64, log zerolog.Logger) *Scripted {
	return &Scripted{
		history:      history,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("evaluator", "scripted").Logger(),
	}
}

// Evaluate derives Sharpe and MaxDrawdown for the candidate weights.
// Series of unequal length are aligned on their most recent days.
func (e *Scripted) Evaluate(trialID int, assets []string, weights allocation.Weights) (Metrics, error) {
	if len(assets) != len(weights) {
		return Metrics{}, fmt.Errorf("got %d weights for %d assets", len(weights), len(assets))
	}

	returnsByAsset := make([][]float64, len(assets))
	days := -1
	for i, symbol := range assets {
		prices, ok := e.history[symbol]
		if !ok {
			return Metrics{}, fmt.Errorf("no price history for %s", symbol)
		}
		r := formulas.CalculateReturns(prices)
		if days < 0 || len(r) < days {
			days = len(r)
		}
		returnsByAsset[i] = r
	}
	if days < 2 {
		return Metrics{}, fmt.Errorf("price history too short: %d usable days", days)
	}

	portfolioReturns := make([]float64, days)
	for t := 0; t < days; t++ {
		var r float64
		for i := range assets {
			series := returnsByAsset[i]
			r += weights[i] * series[len(series)-days+t]
		}
		portfolioReturns[t] = r
	}

	// Unit equity curve for the drawdown calculation
	curve := make([]float64, days+1)
	curve[0] = 1
	for t, r := range portfolioReturns {
		curve[t+1] = curve[t] * (1 + r)
	}

	sharpe := formulas.CalculateSharpeRatio(portfolioReturns, e.riskFreeRate, 252)
	maxDrawdown := formulas.CalculateMaxDrawdown(curve)
	if sharpe == nil || maxDrawdown == nil {
		return Metrics{}, fmt.Errorf("metrics undefined for trial %d (flat or degenerate history)", trialID)
	}

	m := Metrics{Sharpe: *sharpe, MaxDrawdown: *maxDrawdown * 100}
	e.log.Debug().
		Int("trial", trialID).
		Float64("sharpe", m.Sharpe).
		Float64("max_drawdown", m.MaxDrawdown).
		Msg("Candidate evaluated from history")

	return m, nil
}
