// Package main renders the current standing without mutating any state:
// recomputes the gate decision from the draw history, reads the persisted
// campaigns and prints the digest (and optionally markdown) to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lotofacil-lab/internal/config"
	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/gate"
	"lotofacil-lab/internal/ingest"
	"lotofacil-lab/internal/payout"
	"lotofacil-lab/internal/reporting"
	"lotofacil-lab/internal/storage"
	"lotofacil-lab/internal/storage/file"
	pgstore "lotofacil-lab/internal/storage/postgres"
	"lotofacil-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	markdown := flag.Bool("markdown", false, "Render markdown instead of the text digest")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := run(context.Background(), *configPath, *markdown, log); err != nil {
		log.Fatal().Err(err).Msg("report failed")
	}
}

func run(ctx context.Context, configPath string, markdown bool, log zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	draws, stateRepo, cleanup, err := openSources(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(draws) == 0 {
		return fmt.Errorf("draw history is empty")
	}

	state, err := stateRepo.Load(ctx)
	if err != nil {
		return err
	}

	strat, err := strategy.FromConfig(cfg.Strategy)
	if err != nil {
		return fmt.Errorf("build strategy: %w", err)
	}
	engine := gate.NewEngine(strat, payout.NewTableModel(), gate.Config{
		WindowLength:   cfg.Gate.WindowLength,
		WinThreshold:   cfg.Gate.WinThreshold,
		SuccessMode:    domain.SuccessMode(cfg.Gate.SuccessMode),
		PercentileLow:  cfg.Gate.PercentileLow,
		PercentileHigh: cfg.Gate.PercentileHigh,
		LookbackBases:  cfg.Gate.LookbackBases,
	})

	history, decision, err := engine.Run(ctx, draws)
	if err != nil {
		return err
	}

	report := &reporting.RunReport{
		RunID:    "adhoc",
		RunDate:  time.Now().UTC().Format("2006-01-02"),
		Latest:   draws[len(draws)-1],
		Decision: decision,
		History:  history,
		Active:   state.Active(),
	}

	if markdown {
		fmt.Print(reporting.RenderMarkdown(report))
	} else {
		fmt.Print(reporting.RenderDigest(report))
	}
	return nil
}

// openSources reads draws and opens the state repository, postgres or
// file/CSV depending on configuration. Read-only: no lock is taken.
func openSources(ctx context.Context, cfg config.Config, log zerolog.Logger) ([]*domain.Draw, storage.StateRepository, func(), error) {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		draws, err := pgstore.NewDrawStore(pool).GetAll(ctx)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return draws, pgstore.NewStateRepository(pool), pool.Close, nil
	}

	f, err := os.Open(cfg.Storage.CSVPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open draw history: %w", err)
	}
	defer f.Close()

	draws, err := ingest.ParseCSV(f)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse draw history: %w", err)
	}
	return draws, file.NewStateRepository(cfg.Storage.StatePath, log), func() {}, nil
}
