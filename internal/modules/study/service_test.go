package study

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/alloctuner/internal/modules/allocation"
	"github.com/aristath/alloctuner/internal/modules/evaluation"
)

// stubSuggester replays a fixed value and records every request.
type stubSuggester struct {
	value float64
	keys  []string
	told  map[int]float64
}

func newStubSuggester(value float64) *stubSuggester {
	return &stubSuggester{value: value, told: make(map[int]float64)}
}

func (s *stubSuggester) SuggestFloat(trialID int, key string, low, high float64) float64 {
	s.keys = append(s.keys, fmt.Sprintf("t%d/%s", trialID, key))
	return s.value
}

func (s *stubSuggester) Tell(trialID int, loss float64) {
	s.told[trialID] = loss
}

// stubEvaluator returns scripted metrics per trial id.
type stubEvaluator struct {
	metrics func(trialID int) evaluation.Metrics
	calls   int
}

func (e *stubEvaluator) Evaluate(trialID int, assets []string, weights allocation.Weights) (evaluation.Metrics, error) {
	e.calls++
	return e.metrics(trialID), nil
}

func testConfig(trials int) Config {
	return Config{
		Assets:    []string{"VT", "THNQ", "UPRO", "KMLM", "GLD", "TLT"},
		Floors:    allocation.FloorVector{0.4, 0.1, 0.05, 0, 0, 0},
		Precision: 4,
		Trials:    trials,
	}
}

func TestRunExecutesExactBudget(t *testing.T) {
	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(id int) evaluation.Metrics {
		return evaluation.Metrics{Sharpe: float64(id) / 10, MaxDrawdown: 20}
	}}

	svc := New(testConfig(7), sugg, eval, nil, zerolog.Nop())
	svc.SetOutput(&strings.Builder{})

	best, err := svc.Run()
	require.NoError(t, err)

	assert.Len(t, svc.State().Trials(), 7)
	assert.Equal(t, 7, eval.calls)

	// Highest sharpe = lowest loss = last trial
	assert.Equal(t, 7, best.ID)
	assert.InDelta(t, -0.7, *best.Loss, 1e-12)

	// Every trial reported its loss back
	assert.Len(t, sugg.told, 7)
}

func TestRunRequestsParamsInAssetOrder(t *testing.T) {
	sugg := newStubSuggester(0.5)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics {
		return evaluation.Metrics{Sharpe: 1, MaxDrawdown: 20}
	}}

	svc := New(testConfig(2), sugg, eval, nil, zerolog.Nop())
	svc.SetOutput(&strings.Builder{})

	_, err := svc.Run()
	require.NoError(t, err)

	want := []string{
		"t1/u_0", "t1/u_1", "t1/u_2", "t1/u_3", "t1/u_4", "t1/u_5",
		"t2/u_0", "t2/u_1", "t2/u_2", "t2/u_3", "t2/u_4", "t2/u_5",
	}
	assert.Equal(t, want, sugg.keys)
}

func TestRunTrialsAreFinalizedAndConsistent(t *testing.T) {
	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics {
		return evaluation.Metrics{Sharpe: 1, MaxDrawdown: 20}
	}}

	svc := New(testConfig(3), sugg, eval, nil, zerolog.Nop())
	svc.SetOutput(&strings.Builder{})

	_, err := svc.Run()
	require.NoError(t, err)

	for _, trial := range svc.State().Trials() {
		assert.Equal(t, PhaseEvaluated, trial.Phase)
		require.NotNil(t, trial.Loss)
		assert.InDelta(t, 1.0, trial.Weights.Sum(), 1e-9)

		// Attrs mirror the weight vector, keyed by symbol
		for i, asset := range svc.cfg.Assets {
			assert.Equal(t, trial.Weights[i], trial.Attrs[asset])
		}

		// Floors hold after discretization (weight error < 10^-4)
		for i, floor := range svc.cfg.Floors {
			assert.GreaterOrEqual(t, trial.Weights[i], floor-1e-4)
		}
	}
}

func TestRunFirstEncounteredWinsTies(t *testing.T) {
	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics {
		// Identical loss every trial
		return evaluation.Metrics{Sharpe: 0.5, MaxDrawdown: 10}
	}}

	svc := New(testConfig(5), sugg, eval, nil, zerolog.Nop())
	svc.SetOutput(&strings.Builder{})

	best, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, best.ID)
}

func TestRunRejectsInfeasibleFloors(t *testing.T) {
	cfg := testConfig(5)
	cfg.Floors = allocation.FloorVector{0.6, 0.3, 0.2, 0, 0, 0}

	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics { return evaluation.Metrics{} }}

	svc := New(cfg, sugg, eval, nil, zerolog.Nop())
	_, err := svc.Run()
	assert.ErrorIs(t, err, allocation.ErrFloorInfeasible)

	// Config errors abort before any trial executes
	assert.Empty(t, sugg.keys)
	assert.Zero(t, eval.calls)
}

func TestRunRejectsBadConfig(t *testing.T) {
	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics { return evaluation.Metrics{} }}

	cfg := testConfig(0)
	svc := New(cfg, sugg, eval, nil, zerolog.Nop())
	_, err := svc.Run()
	assert.Error(t, err)

	cfg = testConfig(5)
	cfg.Assets = cfg.Assets[:3]
	svc = New(cfg, sugg, eval, nil, zerolog.Nop())
	_, err = svc.Run()
	assert.Error(t, err)
}

func TestRunReportPrintsBestAllocation(t *testing.T) {
	sugg := newStubSuggester(0.37)
	eval := &stubEvaluator{metrics: func(int) evaluation.Metrics {
		return evaluation.Metrics{Sharpe: 1.5, MaxDrawdown: 20}
	}}

	var out strings.Builder
	svc := New(testConfig(2), sugg, eval, nil, zerolog.Nop())
	svc.SetOutput(&out)

	_, err := svc.Run()
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "Best Candidate After 2 Trials")
	// Equal draws put every asset at floor + 0.45/6
	assert.Contains(t, report, "VT: 47.50%")
	assert.Contains(t, report, "Sum: 100.00%")
}

func TestStateBestTracksMinimum(t *testing.T) {
	state := NewState()
	loss := func(v float64) *float64 { return &v }

	state.Add(&Trial{ID: 1, Loss: loss(0.5)})
	state.Add(&Trial{ID: 2, Loss: loss(-0.25)})
	state.Add(&Trial{ID: 3, Loss: loss(-0.25)}) // tie, first wins
	state.Add(&Trial{ID: 4, Loss: loss(1.0)})

	require.NotNil(t, state.Best())
	assert.Equal(t, 2, state.Best().ID)
	assert.Equal(t, []float64{0.5, -0.25, -0.25, 1.0}, state.Losses())
}
