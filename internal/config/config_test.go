package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/alloctuner/internal/modules/allocation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"VT", "THNQ", "UPRO", "KMLM", "GLD", "TLT"}, cfg.Assets)
	assert.Equal(t, allocation.FloorVector{0.40, 0.10, 0.05, 0, 0, 0}, cfg.Floors)
	assert.Equal(t, 4, cfg.Precision)
	assert.Equal(t, 70, cfg.Trials)
	assert.Equal(t, "tpe", cfg.Suggester)
	assert.False(t, cfg.AutoEvaluate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSETS", "AAA, BBB")
	t.Setenv("FLOORS", "0.3, 0.2")
	t.Setenv("TRIALS", "10")
	t.Setenv("SUGGESTER", "random")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, cfg.Assets)
	assert.Equal(t, allocation.FloorVector{0.3, 0.2}, cfg.Floors)
	assert.Equal(t, 10, cfg.Trials)
	assert.Equal(t, "random", cfg.Suggester)
}

func TestLoadRejectsInfeasibleFloors(t *testing.T) {
	t.Setenv("ASSETS", "AAA,BBB")
	t.Setenv("FLOORS", "0.7,0.5")

	_, err := Load()
	assert.ErrorIs(t, err, allocation.ErrFloorInfeasible)
}

func TestLoadRejectsMismatchedFloors(t *testing.T) {
	t.Setenv("ASSETS", "AAA,BBB,CCC")
	t.Setenv("FLOORS", "0.1,0.1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFloors(t *testing.T) {
	t.Setenv("FLOORS", "0.4,abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Assets:    []string{"A", "B"},
			Floors:    allocation.FloorVector{0.4, 0},
			Precision: 4,
			Trials:    70,
			Suggester: "tpe",
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Precision = 1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Trials = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Suggester = "grid"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.AutoEvaluate = true
	assert.Error(t, cfg.Validate())
	cfg.HistoryPath = "prices.csv"
	assert.NoError(t, cfg.Validate())
}
