package strategy

import (
	"context"
	"fmt"

	"lotofacil-lab/internal/domain"
)

// Aposta16Strategy builds the pool of 20 like Pool20Strategy and then
// excludes 4 more numbers by ranking, leaving a single 16-number game (S16).
type Aposta16Strategy struct {
	Pattern        string
	RankMode       string
	LookbackWindow int
}

// NewAposta16Strategy creates a new Aposta16Strategy.
func NewAposta16Strategy(pattern, rankMode string, lookbackWindow int) *Aposta16Strategy {
	return &Aposta16Strategy{
		Pattern:        pattern,
		RankMode:       rankMode,
		LookbackWindow: lookbackWindow,
	}
}

// ID returns the strategy identifier including parameters.
func (s *Aposta16Strategy) ID() string {
	return fmt.Sprintf("APOSTA16_%s_%s_w%d", s.Pattern, s.RankMode, s.LookbackWindow)
}

// Generate builds S16 for the base draw history[len-1].
func (s *Aposta16Strategy) Generate(_ context.Context, history []*domain.Draw, _ int64) (*domain.Selection, error) {
	pool, err := buildPool20(history, s.Pattern, s.RankMode, s.LookbackWindow)
	if err != nil {
		return nil, err
	}

	before := history[:len(history)-1]
	freq := Frequency(before, s.LookbackWindow)
	delay := Delay(before, s.LookbackWindow)

	excluded := pickExclusions(pool, 4, freq, delay, s.RankMode)
	s16 := setDiff(pool, excluded)
	if len(s16) != 16 {
		return nil, fmt.Errorf("s16 has %d numbers, expected 16", len(s16))
	}

	return &domain.Selection{
		StrategyID:   s.ID(),
		BaseConcurso: history[len(history)-1].Concurso,
		Games:        map[string][]int{"S16": s16},
	}, nil
}

// Ensure Aposta16Strategy implements Strategy.
var _ Strategy = (*Aposta16Strategy)(nil)
