package strategy

import (
	"context"
	"fmt"
	"sort"

	"lotofacil-lab/internal/domain"
)

// Fixed number subsets used by the exclusion patterns.
var (
	frameNumbers = []int{1, 2, 3, 4, 5, 6, 10, 11, 15, 16, 20, 21, 22, 23, 24, 25}
	coreNumbers  = []int{7, 8, 9, 12, 13, 14, 17, 18, 19}
	lowerHalf    = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	upperHalf    = []int{14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25}
	evenNumbers  = []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24}
	oddNumbers   = []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 25}
)

// Pool20Strategy excludes 5 of the 25 numbers by pattern and derives four
// games of 15 (P1..P4) from the remaining pool of 20.
type Pool20Strategy struct {
	Pattern        string // resultado | moldura | metade | paridade
	RankMode       string // freq | delay | mixed
	LookbackWindow int
}

// NewPool20Strategy creates a new Pool20Strategy.
func NewPool20Strategy(pattern, rankMode string, lookbackWindow int) *Pool20Strategy {
	return &Pool20Strategy{
		Pattern:        pattern,
		RankMode:       rankMode,
		LookbackWindow: lookbackWindow,
	}
}

// ID returns the strategy identifier including parameters.
func (s *Pool20Strategy) ID() string {
	return fmt.Sprintf("POOL20_%s_%s_w%d", s.Pattern, s.RankMode, s.LookbackWindow)
}

// Generate builds P1..P4 for the base draw history[len-1].
func (s *Pool20Strategy) Generate(_ context.Context, history []*domain.Draw, _ int64) (*domain.Selection, error) {
	pool, err := buildPool20(history, s.Pattern, s.RankMode, s.LookbackWindow)
	if err != nil {
		return nil, err
	}

	games, err := pool20Games(pool)
	if err != nil {
		return nil, err
	}

	return &domain.Selection{
		StrategyID:   s.ID(),
		BaseConcurso: history[len(history)-1].Concurso,
		Games:        games,
	}, nil
}

// buildPool20 excludes 5 numbers per the pattern: 3 from the pattern's
// first subset + 2 from its second, worst ranking scores first.
func buildPool20(history []*domain.Draw, pattern, rankMode string, window int) ([]int, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	base := history[len(history)-1]
	// Ranking uses only draws strictly before the base.
	before := history[:len(history)-1]
	freq := Frequency(before, window)
	delay := Delay(before, window)

	var first, second []int
	switch pattern {
	case domain.PatternResultado:
		first = append([]int(nil), base.Numbers...)
		second = setDiff(universeNumbers(), base.Numbers)
	case domain.PatternMoldura:
		first, second = frameNumbers, coreNumbers
	case domain.PatternMetade:
		first, second = lowerHalf, upperHalf
	case domain.PatternParidade:
		first, second = oddNumbers, evenNumbers
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern)
	}

	excluded := append(
		pickExclusions(first, 3, freq, delay, rankMode),
		pickExclusions(second, 2, freq, delay, rankMode)...,
	)
	sort.Ints(excluded)

	pool := setDiff(universeNumbers(), excluded)
	if len(pool) != 20 {
		return nil, fmt.Errorf("pool20 has %d numbers, expected 20", len(pool))
	}
	return pool, nil
}

// pool20Games derives 4 games of 15 from 20 numbers: split the pool into
// five blocks of four and have game i drop element i of every block. The
// exclusions of the four games are distinct and evenly spread.
func pool20Games(pool []int) (map[string][]int, error) {
	if len(pool) != 20 {
		return nil, fmt.Errorf("pool20 needs 20 numbers, got %d", len(pool))
	}

	games := make(map[string][]int, 4)
	for i := 0; i < 4; i++ {
		var excluded []int
		for b := 0; b < 5; b++ {
			excluded = append(excluded, pool[b*4+i])
		}
		game := setDiff(pool, excluded)
		if len(game) != 15 {
			return nil, fmt.Errorf("pool20 game has %d numbers, expected 15", len(game))
		}
		games[fmt.Sprintf("P%d", i+1)] = game
	}
	return games, nil
}

// Ensure Pool20Strategy implements Strategy.
var _ Strategy = (*Pool20Strategy)(nil)
