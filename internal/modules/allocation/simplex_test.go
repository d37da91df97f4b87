package allocation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSumsToOneAndRespectsFloors(t *testing.T) {
	const tolerance = 1e-9

	floors := FloorVector{0.4, 0.1, 0.05, 0, 0, 0}
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 1000; trial++ {
		draws := make([]float64, len(floors))
		for i := range draws {
			// Strictly inside (Epsilon, 1)
			draws[i] = Epsilon + (1-2*Epsilon)*rng.Float64()
		}

		p, err := Sample(draws, floors)
		require.NoError(t, err)

		assert.InDelta(t, 1.0, p.Sum(), tolerance)
		for i, v := range p {
			assert.GreaterOrEqual(t, v, floors[i]-tolerance,
				"component %d below its floor", i)
		}
	}
}

func TestSampleEqualDrawsGiveUniformRemainder(t *testing.T) {
	// With identical draws the normalized exponential variates are all
	// 1/6, so each asset gets floor + (1-0.55)/6.
	floors := FloorVector{0.4, 0.1, 0.05, 0, 0, 0}
	draws := []float64{0.37, 0.37, 0.37, 0.37, 0.37, 0.37}

	p, err := Sample(draws, floors)
	require.NoError(t, err)

	share := 0.45 / 6
	want := []float64{0.4 + share, 0.1 + share, 0.05 + share, share, share, share}
	for i := range want {
		assert.InDelta(t, want[i], p[i], 1e-12)
	}
	assert.InDelta(t, 1.0, p.Sum(), 1e-12)
}

func TestSampleRejectsOutOfIntervalDraws(t *testing.T) {
	floors := FloorVector{0.5, 0}

	tests := []struct {
		name  string
		draws []float64
	}{
		{"zero", []float64{0, 0.5}},
		{"at epsilon", []float64{Epsilon, 0.5}},
		{"one", []float64{0.5, 1.0}},
		{"above one", []float64{0.5, 1.5}},
		{"negative", []float64{-0.1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(tt.draws, floors)
			assert.True(t, errors.Is(err, ErrInvalidDraw))
		})
	}
}

func TestSampleRejectsInfeasibleFloors(t *testing.T) {
	_, err := Sample([]float64{0.5, 0.5}, FloorVector{0.6, 0.4})
	assert.True(t, errors.Is(err, ErrFloorInfeasible))

	_, err = Sample([]float64{0.5, 0.5}, FloorVector{0.7, 0.5})
	assert.True(t, errors.Is(err, ErrFloorInfeasible))
}

func TestSampleRejectsLengthMismatch(t *testing.T) {
	_, err := Sample([]float64{0.5, 0.5, 0.5}, FloorVector{0.4, 0.1})
	assert.Error(t, err)
}

func TestFloorVectorValidate(t *testing.T) {
	assert.NoError(t, FloorVector{0.4, 0.1, 0.05, 0, 0, 0}.Validate())
	assert.NoError(t, FloorVector{0, 0, 0}.Validate())
	assert.Error(t, FloorVector{-0.1, 0.2}.Validate())
	assert.Error(t, FloorVector{1.0, 0}.Validate())
	assert.Error(t, FloorVector{0.5, 0.5}.Validate())
}
