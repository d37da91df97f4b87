package study

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/alloctuner/internal/modules/allocation"
	"github.com/aristath/alloctuner/internal/modules/evaluation"
)

// Suggester hands out one bounded pseudo-random parameter at a time and
// accepts the resulting loss, so it can adapt future suggestions.
type Suggester interface {
	SuggestFloat(trialID int, key string, low, high float64) float64
	Tell(trialID int, loss float64)
}

// Evaluator turns a candidate allocation into the two risk metrics.
// The interactive implementation blocks on a human; evaluation errors
// are terminal for the run (retryable input problems are handled inside
// the evaluator itself).
type Evaluator interface {
	Evaluate(trialID int, assets []string, weights allocation.Weights) (evaluation.Metrics, error)
}

// Config holds the fixed parameters of one run.
type Config struct {
	Assets    []string
	Floors    allocation.FloorVector
	Precision int // decimal digits of the discretized weights
	Trials    int
}

// Service drives the search: for every trial it requests draws, samples
// a floor-respecting candidate, discretizes it, has it evaluated, and
// reports the loss back to the suggester. After the configured number
// of trials it reports the best trial seen.
type Service struct {
	cfg       Config
	suggester Suggester
	evaluator Evaluator
	repo      *Repository // optional persistence sink, may be nil
	state     *State
	out       io.Writer
	log       zerolog.Logger
}

// New creates a study service. repo may be nil to skip persistence.
func New(cfg Config, suggester Suggester, evaluator Evaluator, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		suggester: suggester,
		evaluator: evaluator,
		repo:      repo,
		state:     NewState(),
		out:       os.Stdout,
		log:       log.With().Str("service", "study").Logger(),
	}
}

// SetOutput redirects the final console report (defaults to stdout).
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// State exposes the run's accumulated trials for reporting.
func (s *Service) State() *State {
	return s.state
}

// Run executes the configured number of trials sequentially and returns
// the best one. The floor vector is validated up front so an
// infeasible configuration aborts before any trial runs.
func (s *Service) Run() (*Trial, error) {
	if err := s.cfg.Floors.Validate(); err != nil {
		return nil, fmt.Errorf("invalid floor vector: %w", err)
	}
	if len(s.cfg.Assets) != len(s.cfg.Floors) {
		return nil, fmt.Errorf("%d assets but %d floors", len(s.cfg.Assets), len(s.cfg.Floors))
	}
	if s.cfg.Trials <= 0 {
		return nil, fmt.Errorf("trial budget must be positive, got %d", s.cfg.Trials)
	}

	s.log.Info().
		Strs("assets", s.cfg.Assets).
		Int("trials", s.cfg.Trials).
		Int("precision", s.cfg.Precision).
		Msg("Starting study")

	for id := 1; id <= s.cfg.Trials; id++ {
		trial, err := s.runTrial(id)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", id, err)
		}
		s.state.Add(trial)

		if s.repo != nil {
			if err := s.repo.Save(trial); err != nil {
				// Persistence is a reporting sink, not part of the
				// search; a failed insert must not lose the run.
				s.log.Warn().Err(err).Int("trial", id).Msg("Failed to persist trial")
			}
		}

		s.log.Info().
			Int("trial", id).
			Float64("loss", *trial.Loss).
			Msg("Trial evaluated")
	}

	best := s.state.Best()
	s.printReport(best)
	s.logSummary()
	return best, nil
}

// runTrial walks one trial through its phases. The allocation is fixed
// once rounded; only the evaluation can block or retry.
func (s *Service) runTrial(id int) (*Trial, error) {
	trial := &Trial{
		ID:        id,
		Phase:     PhaseProposed,
		CreatedAt: time.Now(),
	}

	// One bounded request per asset, in asset-list order. The key
	// order is part of the suggester contract: it keeps the persisted
	// parameter-to-asset mapping reproducible.
	draws := make([]float64, len(s.cfg.Assets))
	for i := range s.cfg.Assets {
		key := fmt.Sprintf("u_%d", i)
		draws[i] = s.suggester.SuggestFloat(id, key, allocation.Epsilon, 1.0)
	}
	trial.Draws = draws

	sampled, err := allocation.Sample(draws, s.cfg.Floors)
	if err != nil {
		return nil, err
	}
	trial.Phase = PhaseSampled

	weights := allocation.Round(sampled, s.cfg.Precision)
	trial.Weights = weights
	trial.Attrs = make(map[string]float64, len(s.cfg.Assets))
	for i, asset := range s.cfg.Assets {
		trial.Attrs[asset] = weights[i]
	}
	trial.Phase = PhaseRounded

	metrics, err := s.evaluator.Evaluate(id, s.cfg.Assets, weights)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	loss := evaluation.Loss(metrics.Sharpe, metrics.MaxDrawdown)
	trial.Metrics = &metrics
	trial.Loss = &loss
	trial.Phase = PhaseEvaluated

	s.suggester.Tell(id, loss)
	return trial, nil
}
