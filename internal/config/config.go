package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aristath/alloctuner/internal/modules/allocation"
)

// Config holds application configuration
type Config struct {
	Assets       []string
	Floors       allocation.FloorVector
	Precision    int // internal decimal digits; printed percentages use Precision-2
	Trials       int
	Suggester    string // "tpe" or "random"
	Seed         int64
	DatabasePath string // empty disables the persisted trial store
	HistoryPath  string // daily close CSV for the scripted evaluator
	AutoEvaluate bool   // compute metrics from HistoryPath instead of prompting
	RiskFreeRate float64
	ReportServer bool
	Port         int
	LogLevel     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	floors, err := getEnvAsFloats("FLOORS", []float64{0.40, 0.10, 0.05, 0, 0, 0})
	if err != nil {
		return nil, fmt.Errorf("invalid FLOORS: %w", err)
	}

	cfg := &Config{
		Assets:       getEnvAsList("ASSETS", []string{"VT", "THNQ", "UPRO", "KMLM", "GLD", "TLT"}),
		Floors:       floors,
		Precision:    getEnvAsInt("PRECISION", 4),
		Trials:       getEnvAsInt("TRIALS", 70),
		Suggester:    getEnv("SUGGESTER", "tpe"),
		Seed:         int64(getEnvAsInt("SEED", 0)),
		DatabasePath: getEnv("DATABASE_PATH", "./data/trials.db"),
		HistoryPath:  getEnv("HISTORY_PATH", ""),
		AutoEvaluate: getEnvAsBool("AUTO_EVALUATE", false),
		RiskFreeRate: getEnvAsFloat("RISK_FREE_RATE", 0.0),
		ReportServer: getEnvAsBool("REPORT_SERVER", false),
		Port:         getEnvAsInt("PORT", 8011),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the run parameters before any trial executes. An
// infeasible floor vector must abort here, not mid-run.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("ASSETS must name at least one asset")
	}
	if len(c.Assets) != len(c.Floors) {
		return fmt.Errorf("%d assets but %d floors", len(c.Assets), len(c.Floors))
	}
	if err := c.Floors.Validate(); err != nil {
		return err
	}
	if c.Precision < 2 {
		return fmt.Errorf("PRECISION must be at least 2, got %d", c.Precision)
	}
	if c.Trials < 1 {
		return fmt.Errorf("TRIALS must be at least 1, got %d", c.Trials)
	}
	switch c.Suggester {
	case "tpe", "random":
	default:
		return fmt.Errorf("SUGGESTER must be tpe or random, got %q", c.Suggester)
	}
	if c.AutoEvaluate && c.HistoryPath == "" {
		return fmt.Errorf("AUTO_EVALUATE requires HISTORY_PATH")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsFloats(key string, defaultValue []float64) ([]float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, f)
	}
	return out, nil
}
