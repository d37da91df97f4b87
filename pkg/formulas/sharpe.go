package formulas

import (
	"math"
)

// CalculateSharpeRatio calculates the annualized Sharpe ratio from
// periodic returns.
//
//	Sharpe = (mean return - periodic risk-free rate) / std dev of returns
//	Annualized: Sharpe * sqrt(periodsPerYear)
//
// riskFreeRate is annual, as a decimal (0.02 for 2%); periodsPerYear is
// 252 for daily returns. Returns nil when the ratio is undefined
// (fewer than two returns, or zero volatility).
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev

	annualized := sharpe * math.Sqrt(float64(periodsPerYear))
	return &annualized
}

// CalculateSharpeFromPrices calculates the Sharpe ratio directly from a
// daily price series.
func CalculateSharpeFromPrices(prices []float64, riskFreeRate float64) *float64 {
	if len(prices) < 2 {
		return nil
	}
	return CalculateSharpeRatio(CalculateReturns(prices), riskFreeRate, 252)
}
