package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/aristath/alloctuner/internal/config"
	"github.com/aristath/alloctuner/internal/database"
	"github.com/aristath/alloctuner/internal/modules/evaluation"
	"github.com/aristath/alloctuner/internal/modules/study"
	"github.com/aristath/alloctuner/internal/server"
	"github.com/aristath/alloctuner/internal/suggest"
	"github.com/aristath/alloctuner/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Persisted trial store (optional)
	var repo *study.Repository
	if cfg.DatabasePath != "" {
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		repo = study.NewRepository(db.Conn(), cfg.Assets, log)
		if err := repo.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare trial store")
		}
		if err := repo.Reset(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear previous run")
		}
	}

	// Suggestion service
	var suggester study.Suggester
	switch cfg.Suggester {
	case "random":
		suggester = suggest.NewRandom(cfg.Seed, log)
	default:
		suggester = suggest.NewTPE(suggest.TPEConfig{Seed: cfg.Seed}, log)
	}

	// Evaluation service
	var evaluator study.Evaluator
	if cfg.AutoEvaluate {
		history, err := evaluation.LoadPriceHistory(cfg.HistoryPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load price history")
		}
		evaluator = evaluation.NewScripted(history, cfg.RiskFreeRate, log)
	} else {
		evaluator = evaluation.NewInteractive(os.Stdin, os.Stdout, cfg.Precision, log)
	}

	// Optional read-only reporting API over the trial store
	if cfg.ReportServer {
		if repo == nil {
			log.Fatal().Msg("REPORT_SERVER requires DATABASE_PATH")
		}
		srv := server.New(server.Config{Port: cfg.Port, Log: log, Repo: repo})
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Reporting server stopped")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	svc := study.New(study.Config{
		Assets:    cfg.Assets,
		Floors:    cfg.Floors,
		Precision: cfg.Precision,
		Trials:    cfg.Trials,
	}, suggester, evaluator, repo, log)

	best, err := svc.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Study failed")
	}

	log.Info().
		Int("trial", best.ID).
		Float64("loss", *best.Loss).
		Msg("Run complete")
}
