// Package main loads a CSV draw history into the configured stores:
// postgres for the run-critical sequence and, when configured, the
// ClickHouse analytics archive.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lotofacil-lab/internal/config"
	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/ingest"
	"lotofacil-lab/internal/storage"
	chstore "lotofacil-lab/internal/storage/clickhouse"
	"lotofacil-lab/internal/storage/migrations"
	pgstore "lotofacil-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	csvPath := flag.String("csv", "", "CSV file to ingest (defaults to storage.csv_path)")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := run(context.Background(), *configPath, *csvPath, log); err != nil {
		log.Fatal().Err(err).Msg("ingest failed")
	}
}

func run(ctx context.Context, configPath, csvPath string, log zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if csvPath == "" {
		csvPath = cfg.Storage.CSVPath
	}
	if csvPath == "" {
		return errors.New("no CSV file: pass -csv or set storage.csv_path")
	}
	if cfg.Storage.PostgresDSN == "" && cfg.Storage.ClickhouseDSN == "" {
		return errors.New("nothing to ingest into: set storage.postgres_dsn or storage.clickhouse_dsn")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	draws, err := ingest.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", csvPath, err)
	}
	log.Info().Int("draws", len(draws)).Str("file", csvPath).Msg("csv parsed")

	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		inserted, err := insertNew(ctx, pgstore.NewDrawStore(pool), draws)
		if err != nil {
			return fmt.Errorf("postgres ingest: %w", err)
		}
		log.Info().Int("inserted", inserted).Msg("postgres up to date")
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		inserted, err := insertNew(ctx, chstore.NewDrawArchiveStore(conn), draws)
		if err != nil {
			return fmt.Errorf("clickhouse ingest: %w", err)
		}
		log.Info().Int("inserted", inserted).Msg("clickhouse archive up to date")
	}

	return nil
}

// insertNew inserts only draws past the store's latest concurso, so repeated
// ingests of a growing export are incremental.
func insertNew(ctx context.Context, store storage.DrawStore, draws []*domain.Draw) (int, error) {
	latest := 0
	if d, err := store.GetLatest(ctx); err == nil {
		latest = d.Concurso
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, err
	}

	var fresh []*domain.Draw
	for _, d := range draws {
		if d.Concurso > latest {
			fresh = append(fresh, d)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := store.InsertBulk(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}
