package strategy

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"lotofacil-lab/internal/domain"
)

// Fixed-pick mode constants for ClosureStrategy.
const (
	FixModeRandom = "random"
	FixModeFreq   = "freq"
	FixModeDelay  = "delay"
)

// ClosureStrategy builds the classic four-card closure (AR, AS, BR, BS).
// Three fixed numbers come from the base draw's 15 and two from the 10
// absent ones; the remainders are split into the A/B and R/S halves so
// every card ends up with 15 numbers.
type ClosureStrategy struct {
	FixDrawnMode   string // how the 3 fixed drawn numbers are picked
	FixAbsentMode  string // how the 2 fixed absent numbers are picked
	LookbackWindow int
}

// NewClosureStrategy creates a new ClosureStrategy.
func NewClosureStrategy(fixDrawnMode, fixAbsentMode string, lookbackWindow int) *ClosureStrategy {
	return &ClosureStrategy{
		FixDrawnMode:   fixDrawnMode,
		FixAbsentMode:  fixAbsentMode,
		LookbackWindow: lookbackWindow,
	}
}

// ID returns the strategy identifier including parameters.
func (s *ClosureStrategy) ID() string {
	return fmt.Sprintf("CLOSURE_%s_%s_w%d", s.FixDrawnMode, s.FixAbsentMode, s.LookbackWindow)
}

// Generate builds AR/AS/BR/BS for the base draw history[len-1]. The seed
// drives every random split, so the output is a pure function of
// (history, seed).
func (s *ClosureStrategy) Generate(_ context.Context, history []*domain.Draw, seed int64) (*domain.Selection, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	base := history[len(history)-1]
	before := history[:len(history)-1]
	rng := rand.New(rand.NewSource(seed))

	drawn := append([]int(nil), base.Numbers...)
	sort.Ints(drawn)
	absent := setDiff(universeNumbers(), drawn)

	fixDrawn := s.pickFixed(drawn, 3, s.FixDrawnMode, before, rng)
	fixAbsent := s.pickFixed(absent, 2, s.FixAbsentMode, before, rng)

	aExtra, bExtra := splitRemaining(setDiff(drawn, fixDrawn), 6, 6, rng)
	rExtra, sExtra := splitRemaining(setDiff(absent, fixAbsent), 4, 4, rng)

	groupA := union(fixDrawn, aExtra)
	groupB := union(fixDrawn, bExtra)
	groupR := union(fixAbsent, rExtra)
	groupS := union(fixAbsent, sExtra)

	games := map[string][]int{
		"AR": union(groupA, groupR),
		"AS": union(groupA, groupS),
		"BR": union(groupB, groupR),
		"BS": union(groupB, groupS),
	}
	for label, game := range games {
		if len(game) != 15 {
			return nil, fmt.Errorf("closure card %s has %d numbers, expected 15", label, len(game))
		}
	}

	return &domain.Selection{
		StrategyID:   s.ID(),
		BaseConcurso: base.Concurso,
		Games:        games,
	}, nil
}

// pickFixed selects k numbers from candidates by mode: best frequency,
// longest delay, or a seeded random sample.
func (s *ClosureStrategy) pickFixed(candidates []int, k int, mode string, before []*domain.Draw, rng *rand.Rand) []int {
	if k <= 0 {
		return nil
	}
	c := append([]int(nil), candidates...)
	if len(c) <= k {
		return c
	}

	switch mode {
	case FixModeFreq:
		freq := Frequency(before, s.LookbackWindow)
		sort.Slice(c, func(i, j int) bool {
			if freq[c[i]] != freq[c[j]] {
				return freq[c[i]] > freq[c[j]]
			}
			return c[i] > c[j]
		})
	case FixModeDelay:
		delay := Delay(before, s.LookbackWindow)
		sort.Slice(c, func(i, j int) bool {
			if delay[c[i]] != delay[c[j]] {
				return delay[c[i]] > delay[c[j]]
			}
			return c[i] > c[j]
		})
	default: // random
		rng.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
	}

	out := append([]int(nil), c[:k]...)
	sort.Ints(out)
	return out
}

// splitRemaining shuffles the remainder and deals two disjoint groups of
// size1 and size2 numbers.
func splitRemaining(remaining []int, size1, size2 int, rng *rand.Rand) ([]int, []int) {
	rem := append([]int(nil), remaining...)
	rng.Shuffle(len(rem), func(i, j int) { rem[i], rem[j] = rem[j], rem[i] })

	if size1 > len(rem) {
		size1 = len(rem)
	}
	a := append([]int(nil), rem[:size1]...)

	rest := rem[size1:]
	if size2 > len(rest) {
		size2 = len(rest)
	}
	b := append([]int(nil), rest[:size2]...)

	sort.Ints(a)
	sort.Ints(b)
	return a, b
}

func union(a, b []int) []int {
	set := make(map[int]bool, len(a)+len(b))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		set[n] = true
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Ensure ClosureStrategy implements Strategy.
var _ Strategy = (*ClosureStrategy)(nil)
