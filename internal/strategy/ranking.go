package strategy

import (
	"sort"

	"lotofacil-lab/internal/domain"
)

// Frequency counts appearances per number over the last window draws
// (window <= 0 or >= len uses the full history).
func Frequency(draws []*domain.Draw, window int) map[int]int {
	use := lookback(draws, window)
	freq := make(map[int]int, domain.UniverseMax)
	for n := domain.UniverseMin; n <= domain.UniverseMax; n++ {
		freq[n] = 0
	}
	for _, d := range use {
		for _, n := range d.Numbers {
			freq[n]++
		}
	}
	return freq
}

// Delay counts draws since each number was last seen over the last window
// draws. A number never seen in the window gets delay len(window).
func Delay(draws []*domain.Draw, window int) map[int]int {
	use := lookback(draws, window)
	lastSeen := make(map[int]int, domain.UniverseMax)
	for idx, d := range use {
		for _, n := range d.Numbers {
			lastSeen[n] = idx
		}
	}

	maxIdx := len(use) - 1
	delay := make(map[int]int, domain.UniverseMax)
	for n := domain.UniverseMin; n <= domain.UniverseMax; n++ {
		if idx, seen := lastSeen[n]; seen {
			delay[n] = maxIdx - idx
		} else {
			delay[n] = len(use)
		}
	}
	return delay
}

func lookback(draws []*domain.Draw, window int) []*domain.Draw {
	if window > 0 && window < len(draws) {
		return draws[len(draws)-window:]
	}
	return draws
}

// score ranks a number for keep/exclude decisions. Higher score = keep.
func score(n int, freq, delay map[int]int, mode string) float64 {
	switch mode {
	case domain.RankModeFreq:
		return float64(freq[n])
	case domain.RankModeDelay:
		return float64(delay[n])
	default: // mixed
		return float64(freq[n]) + 0.25*float64(delay[n])
	}
}

// pickExclusions returns the k worst-scored candidates, sorted ASC.
// Ties break on the number itself, so the result is fully deterministic.
func pickExclusions(candidates []int, k int, freq, delay map[int]int, mode string) []int {
	if k <= 0 {
		return nil
	}

	c := dedupSorted(candidates)
	if len(c) <= k {
		return c
	}

	sort.Slice(c, func(i, j int) bool {
		si, sj := score(c[i], freq, delay, mode), score(c[j], freq, delay, mode)
		if si != sj {
			return si < sj
		}
		return c[i] < c[j]
	})

	out := append([]int(nil), c[:k]...)
	sort.Ints(out)
	return out
}

func dedupSorted(nums []int) []int {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// setDiff returns the members of universe not in excluded, sorted ASC.
func setDiff(universe []int, excluded []int) []int {
	skip := make(map[int]bool, len(excluded))
	for _, n := range excluded {
		skip[n] = true
	}
	out := make([]int, 0, len(universe))
	for _, n := range universe {
		if !skip[n] {
			out = append(out, n)
		}
	}
	return out
}

// universeNumbers returns 1..25 sorted ASC.
func universeNumbers() []int {
	out := make([]int, 0, domain.UniverseMax)
	for n := domain.UniverseMin; n <= domain.UniverseMax; n++ {
		out = append(out, n)
	}
	return out
}
