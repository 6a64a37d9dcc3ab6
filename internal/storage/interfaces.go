package storage

import (
	"context"

	"lotofacil-lab/internal/domain"
)

// DrawStore provides access to the historical draw sequence. The store is
// append-only and gap-tolerant: concurso numbers increase strictly but may
// skip, and a draw is never updated once inserted.
type DrawStore interface {
	// Insert adds a new draw. Returns ErrDuplicateKey if the concurso exists.
	Insert(ctx context.Context, d *domain.Draw) error

	// InsertBulk adds multiple draws atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, draws []*domain.Draw) error

	// GetAll retrieves every draw, ordered by concurso ASC.
	GetAll(ctx context.Context) ([]*domain.Draw, error)

	// GetByRange retrieves draws with concurso within [start, end] (inclusive),
	// ordered by concurso ASC.
	GetByRange(ctx context.Context, start, end int) ([]*domain.Draw, error)

	// GetLatest retrieves the draw with the highest concurso.
	// Returns ErrNotFound on an empty store.
	GetLatest(ctx context.Context) (*domain.Draw, error)
}

// StateRepository persists the campaign state aggregate. The state is read
// wholesale at the start of a run and written back wholesale at the end;
// there is exactly one writer per run.
type StateRepository interface {
	// Load retrieves the persisted state. A repository that has never been
	// written returns a fresh versioned empty state, not an error.
	Load(ctx context.Context) (*domain.CampaignState, error)

	// Save persists the full state, stamping UpdatedAt.
	Save(ctx context.Context, state *domain.CampaignState) error
}
