package allocation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Epsilon is the lower edge of the open interval draws must fall in.
// The sampler takes -ln(u) of every draw, so u must stay strictly
// positive and strictly below 1.
const Epsilon = 1e-8

var (
	// ErrFloorInfeasible means the floor weights sum to 1 or more,
	// leaving no mass for the sampler to distribute.
	ErrFloorInfeasible = errors.New("floor weights sum to >= 1")

	// ErrInvalidDraw means a uniform draw fell outside the open
	// sampling interval (Epsilon, 1).
	ErrInvalidDraw = errors.New("draw outside open sampling interval")
)

// FloorVector holds the per-asset minimum weight, in asset-list order.
// It is fixed for the lifetime of a run.
type FloorVector []float64

// Sum returns the total floored mass.
func (f FloorVector) Sum() float64 {
	return floats.Sum(f)
}

// Validate checks that every floor is a usable minimum weight and that
// the floors leave strictly positive mass to distribute.
func (f FloorVector) Validate() error {
	for i, v := range f {
		if v < 0 || v >= 1 {
			return fmt.Errorf("floor %d = %v: must be in [0, 1)", i, v)
		}
	}
	if f.Sum() >= 1 {
		return fmt.Errorf("floors sum to %v: %w", f.Sum(), ErrFloorInfeasible)
	}
	return nil
}

// Weights is a portfolio weight vector in asset-list order. Every
// transformation (sampling, rounding) returns a fresh vector; a Weights
// value is never mutated after it is produced.
type Weights []float64

// Sum returns the total allocated weight.
func (w Weights) Sum() float64 {
	return floats.Sum(w)
}
