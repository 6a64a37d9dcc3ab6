// Package payout scores frozen selections against realized draws using the
// per-draw prize tables. Tables are sparse: a missing hit count pays zero,
// and only 11..15 hits ever pay.
package payout

import (
	"errors"
	"fmt"

	"lotofacil-lab/internal/domain"
)

// Ticket prices. The 16- and 17-number bets are fixed-price combination
// tickets equivalent to 16 and 136 games of 15 respectively.
const (
	CostGame15 = 3.50
	CostGame16 = 56.00
	CostGame17 = 476.00
)

// ErrUnsupportedGameSize is returned for games that are not 15, 16 or 17 numbers.
var ErrUnsupportedGameSize = errors.New("unsupported game size")

// Result is the cost and realized payout of one game against one draw.
type Result struct {
	Cost   float64
	Hits   int
	Payout float64
}

// Model evaluates a selection against a realized draw.
type Model interface {
	// Evaluate returns per-game results keyed by game label.
	Evaluate(draw *domain.Draw, sel *domain.Selection) (map[string]Result, error)
}

// TableModel is the standard Model backed by the draw's own prize table.
type TableModel struct{}

// NewTableModel creates the standard payout model.
func NewTableModel() *TableModel {
	return &TableModel{}
}

// Evaluate scores every game of the selection against the draw.
func (m *TableModel) Evaluate(draw *domain.Draw, sel *domain.Selection) (map[string]Result, error) {
	results := make(map[string]Result, len(sel.Games))
	for label, game := range sel.Games {
		hits := draw.Hits(game)

		var cost, pay float64
		switch len(game) {
		case 15:
			cost = CostGame15
			pay = draw.PayoutFor(hits)
		case 16:
			cost = CostGame16
			pay = PayoutGame16(draw, hits)
		case 17:
			cost = CostGame17
			pay = PayoutGame17(draw, hits)
		default:
			return nil, fmt.Errorf("%w: game %q has %d numbers", ErrUnsupportedGameSize, label, len(game))
		}

		results[label] = Result{Cost: cost, Hits: hits, Payout: pay}
	}
	return results, nil
}

// Game16Counts expands k hits of a 16-number bet into its 16 derived games
// of 15: excluding a number that did not come out keeps k hits (16-k games),
// excluding one that did leaves k-1 hits (k games).
func Game16Counts(k int) map[int]int {
	if k < 0 {
		k = 0
	}
	if k > 15 {
		k = 15
	}
	counts := map[int]int{}
	counts[k] += 16 - k
	counts[k-1] += k
	return counts
}

// PayoutGame16 sums the prizes of the 16 derived games of a 16-number bet.
func PayoutGame16(draw *domain.Draw, k int) float64 {
	total := 0.0
	for hits, count := range Game16Counts(k) {
		total += draw.PayoutFor(hits) * float64(count)
	}
	return total
}

// PayoutGame17 sums the prizes of the 136 derived games of a 17-number bet.
// Each derived game excludes 2 of the 17 numbers, r of which may be hits:
// count = C(k, r) * C(17-k, 2-r) games with k-r hits.
func PayoutGame17(draw *domain.Draw, k int) float64 {
	if k < 0 {
		return 0
	}
	if k > 15 {
		k = 15
	}

	total := 0.0
	for r := 0; r <= 2; r++ {
		if r > k || 2-r > 17-k {
			continue
		}
		count := binom(k, r) * binom(17-k, 2-r)
		total += float64(count) * draw.PayoutFor(k-r)
	}
	return total
}

func binom(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// Ensure TableModel implements Model.
var _ Model = (*TableModel)(nil)
