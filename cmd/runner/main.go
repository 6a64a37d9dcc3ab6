// Package main runs one scheduled daily cycle: gate decision, campaign
// advancement, state persistence and report artifacts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lotofacil-lab/internal/campaign"
	"lotofacil-lab/internal/config"
	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/gate"
	"lotofacil-lab/internal/ingest"
	"lotofacil-lab/internal/orchestrator"
	"lotofacil-lab/internal/payout"
	"lotofacil-lab/internal/reporting"
	"lotofacil-lab/internal/storage"
	"lotofacil-lab/internal/storage/file"
	"lotofacil-lab/internal/storage/memory"
	"lotofacil-lab/internal/storage/migrations"
	pgstore "lotofacil-lab/internal/storage/postgres"
	"lotofacil-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	flag.Parse()

	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := run(context.Background(), *configPath, log); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func run(ctx context.Context, configPath string, log zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	strat, err := strategy.FromConfig(cfg.Strategy)
	if err != nil {
		return fmt.Errorf("build strategy: %w", err)
	}

	drawStore, stateRepo, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := gate.NewEngine(strat, payout.NewTableModel(), gate.Config{
		WindowLength:   cfg.Gate.WindowLength,
		WinThreshold:   cfg.Gate.WinThreshold,
		SuccessMode:    domain.SuccessMode(cfg.Gate.SuccessMode),
		PercentileLow:  cfg.Gate.PercentileLow,
		PercentileHigh: cfg.Gate.PercentileHigh,
		LookbackBases:  cfg.Gate.LookbackBases,
	})
	manager := campaign.NewManager(strat, campaign.Config{
		WindowLength: cfg.Gate.WindowLength,
		WinThreshold: cfg.Gate.WinThreshold,
	})

	orch := orchestrator.New(orchestrator.Options{
		DrawStore:       drawStore,
		StateRepository: stateRepo,
		Engine:          engine,
		Manager:         manager,
		Logger:          log,
	})

	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	return writeArtifacts(cfg, report, log)
}

// buildStores wires the draw store and state repository per configuration:
// postgres when a DSN is present, CSV-seeded memory + JSON file otherwise.
func buildStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (storage.DrawStore, storage.StateRepository, func(), error) {
	cleanup := func() {}

	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return pgstore.NewDrawStore(pool), pgstore.NewStateRepository(pool), pool.Close, nil
	}

	draws, err := loadCSVDraws(ctx, cfg.Storage.CSVPath)
	if err != nil {
		return nil, nil, nil, err
	}

	repo := file.NewStateRepository(cfg.Storage.StatePath, log)
	unlock, err := repo.Lock()
	if err != nil {
		if errors.Is(err, file.ErrLocked) {
			return nil, nil, nil, fmt.Errorf("another run is in progress: %w", err)
		}
		return nil, nil, nil, err
	}
	cleanup = unlock

	return draws, repo, cleanup, nil
}

func loadCSVDraws(ctx context.Context, path string) (storage.DrawStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draw history: %w", err)
	}
	defer f.Close()

	draws, err := ingest.ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse draw history %s: %w", path, err)
	}

	store := memory.NewDrawStore()
	if err := store.InsertBulk(ctx, draws); err != nil {
		return nil, fmt.Errorf("seed draw store: %w", err)
	}
	return store, nil
}

// writeArtifacts stores the daily snapshot, digest and reports.
func writeArtifacts(cfg config.Config, report *reporting.RunReport, log zerolog.Logger) error {
	day, err := time.Parse("2006-01-02", report.RunDate)
	if err != nil {
		day = time.Now().UTC()
	}

	snapshotPath, err := file.NewSnapshotWriter(cfg.Output.ResultsDir).Write(day, report)
	if err != nil {
		return err
	}
	log.Info().Str("path", snapshotPath).Msg("snapshot written")

	if err := os.MkdirAll(cfg.Output.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	digestPath := filepath.Join(cfg.Output.ReportsDir, "digest-"+report.RunDate+".txt")
	if err := os.WriteFile(digestPath, []byte(reporting.RenderDigest(report)), 0o644); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}

	mdPath := filepath.Join(cfg.Output.ReportsDir, "report-"+report.RunDate+".md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csvPath := filepath.Join(cfg.Output.ReportsDir, "success-history-"+report.RunDate+".csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderSuccessHistoryCSV(report.History)), 0o644); err != nil {
		return fmt.Errorf("write success history: %w", err)
	}

	log.Info().Str("digest", digestPath).Str("report", mdPath).Str("history", csvPath).Msg("artifacts written")
	return nil
}
