package strategy

import (
	"context"
	"errors"

	"lotofacil-lab/internal/domain"
)

// Strategy errors.
var (
	ErrEmptyHistory = errors.New("strategy requires at least one draw of history")
)

// Strategy produces a frozen selection from a history prefix. The last draw
// of the history is the base draw; nothing at or after the base's successor
// may influence the output. Implementations must be deterministic for a
// given (history, seed) pair, so identical runs reproduce identical
// selections.
type Strategy interface {
	// Generate builds the selection for the base draw history[len-1].
	Generate(ctx context.Context, history []*domain.Draw, seed int64) (*domain.Selection, error)

	// ID returns the strategy identifier (includes parameters).
	ID() string
}
