package study

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TrialRow is the flattened, persisted view of a finalized trial, as
// served to downstream reporting.
type TrialRow struct {
	ID          int                `json:"id"`
	Loss        float64            `json:"loss"`
	Sharpe      float64            `json:"sharpe"`
	MaxDrawdown float64            `json:"max_drawdown"`
	Weights     map[string]float64 `json:"weights"`
	CreatedAt   string             `json:"created_at"`
}

// Repository persists finalized trials to sqlite so the run's results
// stay queryable after the process exits. The in-memory State remains
// the source of truth during the run; nothing is read back into it.
type Repository struct {
	db     *sql.DB
	assets []string // fixed asset list, position order
	log    zerolog.Logger
}

// NewRepository creates a trial repository over the run's fixed asset
// list.
func NewRepository(db *sql.DB, assets []string, log zerolog.Logger) *Repository {
	return &Repository{
		db:     db,
		assets: assets,
		log:    log.With().Str("repo", "trials").Logger(),
	}
}

// EnsureSchema creates the trial tables if they do not exist.
func (r *Repository) EnsureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS trials (
			id           INTEGER PRIMARY KEY,
			loss         REAL NOT NULL,
			sharpe       REAL NOT NULL,
			max_drawdown REAL NOT NULL,
			created_at   TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS trial_params (
			trial_id INTEGER NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			symbol   TEXT NOT NULL,
			draw     REAL NOT NULL,
			weight   REAL NOT NULL,
			PRIMARY KEY (trial_id, position)
		);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create trial schema: %w", err)
	}
	return nil
}

// Reset clears trials left over from a previous run. Persisted rows
// are a reporting artifact of one run, not cross-run state.
func (r *Repository) Reset() error {
	if _, err := r.db.Exec("DELETE FROM trial_params"); err != nil {
		return fmt.Errorf("failed to clear trial params: %w", err)
	}
	if _, err := r.db.Exec("DELETE FROM trials"); err != nil {
		return fmt.Errorf("failed to clear trials: %w", err)
	}
	return nil
}

// Save inserts one finalized trial with its per-asset draws and
// weights.
func (r *Repository) Save(t *Trial) error {
	if t.Phase != PhaseEvaluated || t.Loss == nil || t.Metrics == nil {
		return fmt.Errorf("trial %d not finalized", t.ID)
	}
	if len(t.Draws) != len(r.assets) || len(t.Weights) != len(r.assets) {
		return fmt.Errorf("trial %d has %d draws and %d weights for %d assets",
			t.ID, len(t.Draws), len(t.Weights), len(r.assets))
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO trials (id, loss, sharpe, max_drawdown, created_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, *t.Loss, t.Metrics.Sharpe, t.Metrics.MaxDrawdown,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trial %d: %w", t.ID, err)
	}

	for i, symbol := range r.assets {
		_, err = tx.Exec(
			"INSERT INTO trial_params (trial_id, position, symbol, draw, weight) VALUES (?, ?, ?, ?, ?)",
			t.ID, i, symbol, t.Draws[i], t.Weights[i],
		)
		if err != nil {
			return fmt.Errorf("failed to insert params for trial %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// List returns all persisted trials in run order.
func (r *Repository) List() ([]TrialRow, error) {
	rows, err := r.db.Query("SELECT id, loss, sharpe, max_drawdown, created_at FROM trials ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer rows.Close()

	var out []TrialRow
	for rows.Next() {
		var row TrialRow
		if err := rows.Scan(&row.ID, &row.Loss, &row.Sharpe, &row.MaxDrawdown, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		weights, err := r.GetWeights(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Weights = weights
	}
	return out, nil
}

// Best returns the minimum-loss trial, earliest trial winning ties.
// Returns nil when no trial has been persisted.
func (r *Repository) Best() (*TrialRow, error) {
	row := r.db.QueryRow(
		"SELECT id, loss, sharpe, max_drawdown, created_at FROM trials ORDER BY loss ASC, id ASC LIMIT 1")

	var best TrialRow
	err := row.Scan(&best.ID, &best.Loss, &best.Sharpe, &best.MaxDrawdown, &best.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get best trial: %w", err)
	}

	weights, err := r.GetWeights(best.ID)
	if err != nil {
		return nil, err
	}
	best.Weights = weights
	return &best, nil
}

// GetWeights returns the asset-to-weight mapping of one trial.
func (r *Repository) GetWeights(trialID int) (map[string]float64, error) {
	rows, err := r.db.Query(
		"SELECT symbol, weight FROM trial_params WHERE trial_id = ? ORDER BY position", trialID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weights for trial %d: %w", trialID, err)
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var weight float64
		if err := rows.Scan(&symbol, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight: %w", err)
		}
		weights[symbol] = weight
	}
	return weights, rows.Err()
}
