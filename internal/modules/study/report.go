package study

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// printReport renders the best trial the way the run's operator sees
// it: percentages with precision-2 decimals, plus their sum.
func (s *Service) printReport(best *Trial) {
	if best == nil {
		fmt.Fprintln(s.out, "No evaluated trials.")
		return
	}
	renderBest(s.out, s.cfg.Assets, best, s.cfg.Trials, s.cfg.Precision)
}

// renderBest writes the final report for the winning trial.
func renderBest(w io.Writer, assets []string, best *Trial, trials, precision int) {
	decimals := precision - 2
	if decimals < 0 {
		decimals = 0
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "===== Best Candidate After %d Trials =====\n", trials)
	fmt.Fprintf(w, "Loss: %v (trial %d)\n", *best.Loss, best.ID)
	for i, asset := range assets {
		fmt.Fprintf(w, "%s: %.*f%%\n", asset, decimals, best.Weights[i]*100)
	}
	fmt.Fprintf(w, "Sum: %.*f%%\n", decimals, best.Weights.Sum()*100)
	fmt.Fprintln(w, "=========================================")
}

// logSummary logs the loss distribution of the finished run.
func (s *Service) logSummary() {
	losses := s.state.Losses()
	if len(losses) == 0 {
		return
	}

	sorted := append([]float64(nil), losses...)
	sort.Float64s(sorted)

	s.log.Info().
		Int("trials", len(losses)).
		Float64("best_loss", sorted[0]).
		Float64("worst_loss", sorted[len(sorted)-1]).
		Float64("mean_loss", stat.Mean(losses, nil)).
		Float64("median_loss", stat.Quantile(0.5, stat.Empirical, sorted, nil)).
		Msg("Study finished")
}
