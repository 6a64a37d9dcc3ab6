// Package main replays the gate decision over the historical draw sequence:
// for every prefix of the history it recomputes the decision as it would
// have been made that day, then reports pass frequency and outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lotofacil-lab/internal/config"
	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/gate"
	"lotofacil-lab/internal/ingest"
	"lotofacil-lab/internal/payout"
	"lotofacil-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	fromFlag := flag.Int("from", 0, "First prefix length to evaluate (default: minimum evaluable)")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := run(context.Background(), *configPath, *fromFlag, log); err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}
}

func run(ctx context.Context, configPath string, from int, log zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Storage.CSVPath == "" {
		return fmt.Errorf("backtest requires storage.csv_path")
	}

	f, err := os.Open(cfg.Storage.CSVPath)
	if err != nil {
		return fmt.Errorf("open draw history: %w", err)
	}
	draws, err := ingest.ParseCSV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse draw history: %w", err)
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

	minPrefix := cfg.Gate.WindowLength + 2
	if from > minPrefix {
		minPrefix = from
	}
	if minPrefix > len(draws) {
		return fmt.Errorf("history too short: %d draws, need %d", len(draws), minPrefix)
	}

	var (
		rows   []string
		passes int
	)
	rows = append(rows, "concurso,pass,reason,current_gap,band_low,band_high,wins,trials")

	for n := minPrefix; n <= len(draws); n++ {
		prefix := draws[:n]
		_, decision, err := engine.Run(ctx, prefix)
		if err != nil {
			return fmt.Errorf("decision at prefix %d: %w", n, err)
		}
		if decision.Pass {
			passes++
		}
		rows = append(rows, fmt.Sprintf("%d,%t,%s,%d,%.1f,%.1f,%d,%d",
			prefix[n-1].Concurso, decision.Pass, decision.Reason,
			decision.CurrentGap, decision.BandLow, decision.BandHigh,
			decision.Wins, decision.Trials))
	}

	if err := os.MkdirAll(cfg.Output.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	outPath := filepath.Join(cfg.Output.ReportsDir, "backtest-decisions.csv")
	if err := os.WriteFile(outPath, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("write backtest csv: %w", err)
	}

	evaluated := len(draws) - minPrefix + 1
	log.Info().
		Int("evaluated_days", evaluated).
		Int("passes", passes).
		Float64("pass_rate", float64(passes)/float64(evaluated)).
		Str("output", outPath).
		Msg("backtest complete")
	return nil
}
