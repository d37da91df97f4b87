package suggest

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TPEConfig tunes the tree-structured Parzen estimator.
type TPEConfig struct {
	Seed          int64
	StartupTrials int     // uniform trials before the model kicks in
	Gamma         float64 // fraction of observations treated as "good"
	Candidates    int     // proposals scored per suggestion
}

// TPE is an adaptive suggester. Completed trials are split at the
// gamma-quantile of their losses into a good and a bad group; each
// group gets a per-parameter Parzen window density (a mixture of
// normals centered on the observed values), and the suggestion is the
// sampled candidate maximizing the good/bad density ratio.
//
// Until StartupTrials observations exist the suggester is uniform, so
// early trials explore the whole simplex.
type TPE struct {
	cfg TPEConfig
	rng *rand.Rand
	log zerolog.Logger

	pending map[int]map[string]float64 // suggested params awaiting a loss
	done    []observation
}

type observation struct {
	params map[string]float64
	loss   float64
}

// NewTPE creates a TPE suggester. Zero config fields get defaults
// (10 startup trials, gamma 0.25, 24 candidates).
func NewTPE(cfg TPEConfig, log zerolog.Logger) *TPE {
	if cfg.StartupTrials <= 0 {
		cfg.StartupTrials = 10
	}
	if cfg.Gamma <= 0 || cfg.Gamma >= 1 {
		cfg.Gamma = 0.25
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = 24
	}
	return &TPE{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		log:     log.With().Str("suggester", "tpe").Logger(),
		pending: make(map[int]map[string]float64),
	}
}

// SuggestFloat proposes a value strictly inside (low, high) for one
// parameter of one trial.
func (t *TPE) SuggestFloat(trialID int, key string, low, high float64) float64 {
	value := t.propose(key, low, high)
	if t.pending[trialID] == nil {
		t.pending[trialID] = make(map[string]float64)
	}
	t.pending[trialID][key] = value
	return value
}

// Tell finalizes a trial: its suggested parameters and loss become an
// observation future suggestions are conditioned on.
func (t *TPE) Tell(trialID int, loss float64) {
	params, ok := t.pending[trialID]
	if !ok {
		t.log.Warn().Int("trial", trialID).Msg("Loss reported for unknown trial")
		return
	}
	delete(t.pending, trialID)
	t.done = append(t.done, observation{params: params, loss: loss})
}

func (t *TPE) propose(key string, low, high float64) float64 {
	type obs struct {
		value float64
		loss  float64
	}
	var history []obs
	for _, o := range t.done {
		if v, ok := o.params[key]; ok {
			history = append(history, obs{value: v, loss: o.loss})
		}
	}

	if len(history) < t.cfg.StartupTrials {
		return openUniform(t.rng, low, high)
	}

	sort.SliceStable(history, func(a, b int) bool {
		return history[a].loss < history[b].loss
	})

	split := int(math.Ceil(t.cfg.Gamma * float64(len(history))))
	if split < 1 {
		split = 1
	}
	if split >= len(history) {
		split = len(history) - 1
	}

	good := make([]float64, split)
	for i := range good {
		good[i] = history[i].value
	}
	bad := make([]float64, len(history)-split)
	for i := range bad {
		bad[i] = history[split+i].value
	}

	goodBW := bandwidth(good, low, high)
	badBW := bandwidth(bad, low, high)

	best := openUniform(t.rng, low, high)
	bestScore := math.Inf(-1)
	for i := 0; i < t.cfg.Candidates; i++ {
		center := good[t.rng.Intn(len(good))]
		x := center + goodBW*t.rng.NormFloat64()
		if x <= low || x >= high {
			continue
		}
		score := parzenDensity(good, goodBW, x) / (parzenDensity(bad, badBW, x) + 1e-12)
		if score > bestScore {
			best = x
			bestScore = score
		}
	}
	return best
}

// bandwidth picks a Parzen window width by Silverman's rule, bounded
// away from zero so degenerate groups still propose a spread.
func bandwidth(values []float64, low, high float64) float64 {
	span := high - low
	sigma := stat.StdDev(values, nil)
	bw := 1.06 * sigma * math.Pow(float64(len(values)), -0.2)
	if bw < span*1e-3 || math.IsNaN(bw) {
		bw = span * 1e-3
	}
	if bw > span {
		bw = span
	}
	return bw
}

// parzenDensity is the mean of normal densities centered on the
// observed values.
func parzenDensity(values []float64, bw, x float64) float64 {
	var sum float64
	for _, v := range values {
		sum += distuv.Normal{Mu: v, Sigma: bw}.Prob(x)
	}
	return sum / float64(len(values))
}
