// Package config loads the run configuration from a YAML file, with
// environment overrides for connection strings so credentials stay out of
// committed files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lotofacil-lab/internal/domain"
)

// Environment variables overriding the storage DSNs.
const (
	EnvPostgresDSN   = "LOTOFACIL_POSTGRES_DSN"
	EnvClickhouseDSN = "LOTOFACIL_CLICKHOUSE_DSN"
)

// Config is the top-level run configuration.
type Config struct {
	Gate     GateConfig            `yaml:"gate"`
	Strategy domain.StrategyConfig `yaml:"strategy"`
	Storage  StorageConfig         `yaml:"storage"`
	Output   OutputConfig          `yaml:"output"`
}

// GateConfig parametrizes the gate engine and, through the shared window
// and threshold, the campaigns it opens.
type GateConfig struct {
	WindowLength   int     `yaml:"window_length"`
	WinThreshold   int     `yaml:"win_threshold"`
	SuccessMode    string  `yaml:"success_mode"` // "hits" or "profit"
	PercentileLow  float64 `yaml:"percentile_low"`
	PercentileHigh float64 `yaml:"percentile_high"`
	LookbackBases  int     `yaml:"lookback_bases"` // 0 = evaluate all bases
}

// StorageConfig selects the backing stores. Draws come from csv_path or
// postgres_dsn; state goes to state_path unless postgres_dsn is set.
// clickhouse_dsn is optional and only feeds the analytics archive.
type StorageConfig struct {
	CSVPath       string `yaml:"csv_path"`
	StatePath     string `yaml:"state_path"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// OutputConfig locates the run artifacts.
type OutputConfig struct {
	ResultsDir string `yaml:"results_dir"`
	ReportsDir string `yaml:"reports_dir"`
}

// Default returns the configuration used when a field is left unset.
func Default() Config {
	return Config{
		Gate: GateConfig{
			WindowLength:   3,
			WinThreshold:   14,
			SuccessMode:    string(domain.SuccessModeHits),
			PercentileLow:  25,
			PercentileHigh: 75,
		},
		Strategy: domain.StrategyConfig{
			StrategyType:   domain.StrategyTypePool20,
			Pattern:        domain.PatternResultado,
			RankMode:       domain.RankModeMixed,
			LookbackWindow: 20,
		},
		Storage: StorageConfig{
			StatePath: "results/campaigns.json",
		},
		Output: OutputConfig{
			ResultsDir: "results",
			ReportsDir: "reports",
		},
	}
}

// Load reads the YAML file at path, applies defaults for unset fields and
// environment overrides for DSNs, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dsn := os.Getenv(EnvPostgresDSN); dsn != "" {
		c.Storage.PostgresDSN = dsn
	}
	if dsn := os.Getenv(EnvClickhouseDSN); dsn != "" {
		c.Storage.ClickhouseDSN = dsn
	}
}

// Validate checks the configuration for contradictions. Strategy fields are
// validated by the strategy factory, which owns their semantics.
func (c *Config) Validate() error {
	var errs []error

	if c.Gate.WindowLength <= 0 {
		errs = append(errs, fmt.Errorf("gate.window_length must be positive, got %d", c.Gate.WindowLength))
	}
	if c.Gate.WinThreshold < domain.PrizeMinHits || c.Gate.WinThreshold > domain.PrizeMaxHits {
		errs = append(errs, fmt.Errorf("gate.win_threshold must be in %d..%d, got %d",
			domain.PrizeMinHits, domain.PrizeMaxHits, c.Gate.WinThreshold))
	}
	switch domain.SuccessMode(c.Gate.SuccessMode) {
	case domain.SuccessModeHits, domain.SuccessModeProfit:
	default:
		errs = append(errs, fmt.Errorf("gate.success_mode must be hits or profit, got %q", c.Gate.SuccessMode))
	}
	if c.Gate.PercentileLow < 0 || c.Gate.PercentileHigh > 100 || c.Gate.PercentileLow > c.Gate.PercentileHigh {
		errs = append(errs, fmt.Errorf("gate percentiles must satisfy 0 <= low <= high <= 100, got %.1f/%.1f",
			c.Gate.PercentileLow, c.Gate.PercentileHigh))
	}
	if c.Gate.LookbackBases < 0 {
		errs = append(errs, fmt.Errorf("gate.lookback_bases must not be negative, got %d", c.Gate.LookbackBases))
	}

	if c.Strategy.LookbackWindow < 0 {
		errs = append(errs, fmt.Errorf("strategy.lookback_window must not be negative, got %d", c.Strategy.LookbackWindow))
	}

	if c.Storage.CSVPath == "" && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage requires csv_path or postgres_dsn"))
	}
	if c.Storage.StatePath == "" && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage requires state_path or postgres_dsn"))
	}

	return errors.Join(errs...)
}
