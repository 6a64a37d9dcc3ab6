// Package orchestrator coordinates one scheduled run.
// Flow: load draws → gate decision → advance campaigns → open on pass →
// persist state → assemble report. The whole run is read-modify-write over
// the campaign state: any error aborts before Save, so the persisted state
// is never partially updated.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lotofacil-lab/internal/campaign"
	"lotofacil-lab/internal/gate"
	"lotofacil-lab/internal/reporting"
	"lotofacil-lab/internal/storage"
)

// ErrNoDraws is returned when the draw store is empty.
var ErrNoDraws = errors.New("draw store is empty")

// Orchestrator wires the gate engine and the campaign manager to storage.
type Orchestrator struct {
	draws   storage.DrawStore
	states  storage.StateRepository
	engine  *gate.Engine
	manager *campaign.Manager
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// Options for creating an Orchestrator.
type Options struct {
	DrawStore       storage.DrawStore
	StateRepository storage.StateRepository
	Engine          *gate.Engine
	Manager         *campaign.Manager
	Logger          zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		draws:   opts.DrawStore,
		states:  opts.StateRepository,
		engine:  opts.Engine,
		manager: opts.Manager,
		log:     opts.Logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
}

// WithClock sets a custom clock for deterministic run dates in tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// WithIDSource sets a custom run ID source for deterministic tests.
func (o *Orchestrator) WithIDSource(newID func() string) *Orchestrator {
	o.newID = newID
	return o
}

// Run executes one full cycle and returns the assembled report.
func (o *Orchestrator) Run(ctx context.Context) (*reporting.RunReport, error) {
	runID := o.newID()
	log := o.log.With().Str("run_id", runID).Logger()

	draws, err := o.draws.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load draws: %w", err)
	}
	if len(draws) == 0 {
		return nil, ErrNoDraws
	}
	latest := draws[len(draws)-1]
	log.Info().Int("draws", len(draws)).Int("latest_concurso", latest.Concurso).Msg("draw history loaded")

	state, err := o.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load campaign state: %w", err)
	}

	history, decision, err := o.engine.Run(ctx, draws)
	if err != nil {
		return nil, fmt.Errorf("gate engine: %w", err)
	}
	log.Info().
		Bool("pass", decision.Pass).
		Str("reason", decision.Reason).
		Int("current_gap", decision.CurrentGap).
		Float64("band_low", decision.BandLow).
		Float64("band_high", decision.BandHigh).
		Msg("gate decision")

	delta := o.manager.Advance(state, draws)
	for _, c := range delta.Won {
		log.Info().Str("campaign", c.ID).Int("concurso", c.Outcome.Concurso).Int("hits", c.Outcome.Hits).Msg("campaign won")
	}
	for _, c := range delta.Expired {
		log.Info().Str("campaign", c.ID).Str("reason", c.ExpireReason).Msg("campaign expired")
	}

	opened, err := o.manager.OpenIfPassed(ctx, state, decision, draws)
	if err != nil {
		return nil, fmt.Errorf("open campaign: %w", err)
	}
	if opened != nil {
		log.Info().Str("campaign", opened.ID).Int("start", opened.StartConcurso).Msg("campaign opened")
	}

	if err := o.states.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save campaign state: %w", err)
	}

	report := &reporting.RunReport{
		RunID:    runID,
		RunDate:  o.now().Format("2006-01-02"),
		Latest:   latest,
		Decision: decision,
		History:  history,
		Opened:   opened,
		Won:      delta.Won,
		Expired:  delta.Expired,
		Checks:   delta.Checks,
		Active:   state.Active(),
	}
	return report, nil
}
