// Package gate implements the admission decision for "act today": label
// historical walk-forward trials as successes, derive the empirical band of
// gaps between successes, and pass only when the current gap sits inside
// that band. The band is a backpressure filter, not a predictor.
package gate

import (
	"context"
	"fmt"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/payout"
	"lotofacil-lab/internal/stats"
	"lotofacil-lab/internal/strategy"
)

// Decision reasons.
const (
	ReasonInsufficientHistory   = "insufficient history"
	ReasonInsufficientSuccesses = "insufficient successes"
	ReasonNoPriorSuccess        = "no prior success"
	ReasonGapInsideBand         = "current gap inside historical band"
	ReasonGapOutsideBand        = "current gap outside historical band"
)

// Config holds the gate engine parameters.
type Config struct {
	WindowLength   int                // draws a trial may span (teimosinha window)
	WinThreshold   int                // hits that qualify a draw as a win
	SuccessMode    domain.SuccessMode // profit or hits labeling
	PercentileLow  float64            // lower band percentile (0..100)
	PercentileHigh float64            // upper band percentile (0..100)
	LookbackBases  int                // max walk-forward bases evaluated, 0 = all
}

// Engine computes walk-forward success history and gate decisions. It holds
// no cross-run state: everything is re-derived from the full draw history
// on every run.
type Engine struct {
	strategy strategy.Strategy
	payout   payout.Model
	cfg      Config
}

// NewEngine creates a gate engine with injected strategy and payout model.
func NewEngine(s strategy.Strategy, p payout.Model, cfg Config) *Engine {
	return &Engine{strategy: s, payout: p, cfg: cfg}
}

// SuccessHistory evaluates each base position i (1 .. len-window) with only
// draws[0:i] visible to the strategy, then simulates the frozen selection
// over the next WindowLength draws. No draw at or after position i ever
// influences the record for base i.
//
// Returns an empty history when fewer than WindowLength+2 draws exist;
// Decide turns that into a failed decision with a reason.
func (e *Engine) SuccessHistory(ctx context.Context, draws []*domain.Draw) ([]*domain.SuccessRecord, error) {
	n := len(draws)
	w := e.cfg.WindowLength
	if w <= 0 || n < w+2 {
		return nil, nil
	}

	start := 1
	if e.cfg.LookbackBases > 0 && n-w-start+1 > e.cfg.LookbackBases {
		start = n - w - e.cfg.LookbackBases + 1
	}

	records := make([]*domain.SuccessRecord, 0, n-w-start+1)
	for i := start; i <= n-w; i++ {
		base := draws[i-1]

		// Seed derived from the base concurso: identical runs reproduce
		// identical selections.
		sel, err := e.strategy.Generate(ctx, draws[:i], int64(base.Concurso))
		if err != nil {
			return nil, fmt.Errorf("generate selection for base %d: %w", base.Concurso, err)
		}

		rec, err := e.simulate(sel, draws[i:i+w], base.Concurso)
		if err != nil {
			return nil, fmt.Errorf("simulate base %d: %w", base.Concurso, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// simulate plays the selection over the trial window, accumulating cost and
// payout per draw and stopping early on the first qualifying hit.
func (e *Engine) simulate(sel *domain.Selection, window []*domain.Draw, baseConcurso int) (*domain.SuccessRecord, error) {
	var cost, pay float64
	best := 0

	for _, d := range window {
		results, err := e.payout.Evaluate(d, sel)
		if err != nil {
			return nil, err
		}

		drawBest := 0
		for _, r := range results {
			cost += r.Cost
			pay += r.Payout
			if r.Hits > drawBest {
				drawBest = r.Hits
			}
		}
		if drawBest > best {
			best = drawBest
		}
		if drawBest >= e.cfg.WinThreshold {
			break
		}
	}

	rec := &domain.SuccessRecord{
		Concurso: baseConcurso,
		BestHits: best,
		Profit:   pay - cost,
	}
	switch e.cfg.SuccessMode {
	case domain.SuccessModeProfit:
		rec.Success = rec.Profit > 0
	default:
		rec.Success = best >= e.cfg.WinThreshold
	}
	return rec, nil
}

// Decide derives the gate decision from the success history. Every failure
// path returns pass=false with a reason; insufficient data is a normal
// outcome of a statistical computation, never an error.
func (e *Engine) Decide(draws []*domain.Draw, history []*domain.SuccessRecord) domain.GateDecision {
	decision := domain.GateDecision{
		PercentileLow:  e.cfg.PercentileLow,
		PercentileHigh: e.cfg.PercentileHigh,
	}

	n := len(draws)
	w := e.cfg.WindowLength
	if len(history) == 0 || n < w+2 {
		decision.Reason = ReasonInsufficientHistory
		return decision
	}

	decision.Trials = len(history)
	var successes []int
	for _, rec := range history {
		if rec.Success {
			successes = append(successes, rec.Concurso)
			decision.Wins++
		}
	}
	decision.WinRate = float64(decision.Wins) / float64(decision.Trials)

	// The most recent base with a full evaluable window ahead of it.
	eligible := draws[n-w-1].Concurso
	decision.LastEligible = eligible

	if len(successes) < 2 {
		decision.Reason = ReasonInsufficientSuccesses
		return decision
	}

	gaps := make([]float64, 0, len(successes)-1)
	for i := 1; i < len(successes); i++ {
		gaps = append(gaps, float64(successes[i]-successes[i-1]))
	}
	decision.BandLow = stats.Percentile(gaps, e.cfg.PercentileLow)
	decision.BandHigh = stats.Percentile(gaps, e.cfg.PercentileHigh)

	lastSuccess, ok := lastAtOrBefore(successes, eligible)
	if !ok {
		decision.Reason = ReasonNoPriorSuccess
		return decision
	}
	decision.LastSuccess = lastSuccess
	decision.CurrentGap = eligible - lastSuccess

	gap := float64(decision.CurrentGap)
	if gap >= decision.BandLow && gap <= decision.BandHigh {
		decision.Pass = true
		decision.Reason = ReasonGapInsideBand
	} else {
		decision.Reason = ReasonGapOutsideBand
	}
	return decision
}

// Run computes the success history and decision in one pass.
func (e *Engine) Run(ctx context.Context, draws []*domain.Draw) ([]*domain.SuccessRecord, domain.GateDecision, error) {
	history, err := e.SuccessHistory(ctx, draws)
	if err != nil {
		return nil, domain.GateDecision{}, err
	}
	return history, e.Decide(draws, history), nil
}

// lastAtOrBefore returns the greatest success concurso <= limit. The input
// is ascending because walk-forward bases are visited in order.
func lastAtOrBefore(successes []int, limit int) (int, bool) {
	for i := len(successes) - 1; i >= 0; i-- {
		if successes[i] <= limit {
			return successes[i], true
		}
	}
	return 0, false
}
