package study

import (
	"time"

	"github.com/aristath/alloctuner/internal/modules/allocation"
	"github.com/aristath/alloctuner/internal/modules/evaluation"
)

// Phase tracks how far a trial has progressed. Trials only move
// forward: Proposed -> Sampled -> Rounded -> Evaluated.
type Phase string

const (
	PhaseProposed  Phase = "proposed"
	PhaseSampled   Phase = "sampled"
	PhaseRounded   Phase = "rounded"
	PhaseEvaluated Phase = "evaluated"
)

// Trial is one optimization attempt: the raw draws that produced it,
// the discretized candidate weights, and the evaluated loss. Once the
// phase reaches Evaluated the record is never mutated again.
type Trial struct {
	ID        int
	Phase     Phase
	Draws     []float64          // raw uniforms, one per asset, asset-list order
	Weights   allocation.Weights // discretized candidate
	Attrs     map[string]float64 // asset symbol -> discretized weight
	Metrics   *evaluation.Metrics
	Loss      *float64
	CreatedAt time.Time
}

// State accumulates the trials of one run and tracks the best
// (minimum-loss) one. It lives for the duration of a single run and is
// owned exclusively by the loop; nothing is read back across runs.
type State struct {
	trials []*Trial
	best   *Trial
}

// NewState creates an empty run state.
func NewState() *State {
	return &State{}
}

// Add records a finalized trial and updates the best-seen marker.
// Strict less-than keeps the first-encountered trial on loss ties.
func (s *State) Add(t *Trial) {
	s.trials = append(s.trials, t)
	if t.Loss == nil {
		return
	}
	if s.best == nil || *t.Loss < *s.best.Loss {
		s.best = t
	}
}

// Best returns the minimum-loss trial seen so far, or nil before any
// trial finalized.
func (s *State) Best() *Trial {
	return s.best
}

// Trials returns all recorded trials in run order.
func (s *State) Trials() []*Trial {
	return s.trials
}

// Losses returns the finalized losses in run order.
func (s *State) Losses() []float64 {
	out := make([]float64, 0, len(s.trials))
	for _, t := range s.trials {
		if t.Loss != nil {
			out = append(out, *t.Loss)
		}
	}
	return out
}
