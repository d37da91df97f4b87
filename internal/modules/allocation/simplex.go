package allocation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sample maps independent uniform draws to a point on the probability
// simplex that respects the floor vector.
//
// Each draw u in (Epsilon, 1) becomes an exponential variate -ln(u);
// normalizing a vector of independent exponential variates yields a
// point uniformly distributed on the simplex (the gamma/exponential
// construction of a symmetric Dirichlet sample). The floors are then
// injected:
//
//	p_i = floor_i + (1 - sum(floors)) * d_i
//
// so the result sums to 1 and every component is at least its floor,
// with the unfloored mass spread uniformly over all assets.
//
// Draws on or outside the open interval are rejected with
// ErrInvalidDraw rather than clamped; the suggestion service contract
// guarantees they never occur.
func Sample(draws []float64, floors FloorVector) (Weights, error) {
	if len(draws) != len(floors) {
		return nil, fmt.Errorf("got %d draws for %d floors", len(draws), len(floors))
	}
	if err := floors.Validate(); err != nil {
		return nil, err
	}

	x := make([]float64, len(draws))
	for i, u := range draws {
		if u <= Epsilon || u >= 1 {
			return nil, fmt.Errorf("draw %d = %v: %w", i, u, ErrInvalidDraw)
		}
		x[i] = -math.Log(u)
	}

	total := floats.Sum(x)
	free := 1 - floors.Sum()

	p := make(Weights, len(draws))
	for i := range x {
		p[i] = floors[i] + free*x[i]/total
	}
	return p, nil
}
