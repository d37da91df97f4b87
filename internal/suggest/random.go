// Package suggest provides the parameter suggestion services the study
// loop draws its per-trial uniforms from. Both implementations return
// values strictly inside the requested open interval; the TPE variant
// additionally adapts its proposal distribution to the losses it is
// told about.
package suggest

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// Random suggests uniformly at random and ignores reported losses.
// Useful as a baseline and for deterministic (seeded) tests.
type Random struct {
	rng *rand.Rand
	log zerolog.Logger
}

// NewRandom creates a uniform random suggester with the given seed.
func NewRandom(seed int64, log zerolog.Logger) *Random {
	return &Random{
		rng: rand.New(rand.NewSource(seed)),
		log: log.With().Str("suggester", "random").Logger(),
	}
}

// SuggestFloat returns a value strictly inside (low, high).
func (r *Random) SuggestFloat(trialID int, key string, low, high float64) float64 {
	return openUniform(r.rng, low, high)
}

// Tell is a no-op; the random suggester has no model to update.
func (r *Random) Tell(trialID int, loss float64) {}

// openUniform samples (low, high) with both edges excluded. Float64
// can land exactly on low; resample until strictly inside.
func openUniform(rng *rand.Rand, low, high float64) float64 {
	for {
		v := low + rng.Float64()*(high-low)
		if v > low && v < high {
			return v
		}
	}
}
