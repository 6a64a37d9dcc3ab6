package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// StateRepository implements storage.StateRepository on a single-row JSONB
// aggregate. The whole state travels as one document, matching the
// read-modify-write cycle of a run: no per-campaign row bookkeeping, no
// partial updates.
type StateRepository struct {
	pool *Pool
	now  func() time.Time
}

// NewStateRepository creates a new StateRepository.
func NewStateRepository(pool *Pool) *StateRepository {
	return &StateRepository{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock for deterministic UpdatedAt stamps in tests.
func (r *StateRepository) WithClock(now func() time.Time) *StateRepository {
	r.now = now
	return r
}

// Compile-time interface check.
var _ storage.StateRepository = (*StateRepository)(nil)

// Load retrieves the persisted state, or a fresh versioned empty state when
// the row has never been written.
func (r *StateRepository) Load(ctx context.Context) (*domain.CampaignState, error) {
	query := `SELECT state FROM campaign_state WHERE id = 1`

	var raw []byte
	if err := r.pool.QueryRow(ctx, query).Scan(&raw); err != nil {
		if isNotFoundError(err) {
			return domain.NewCampaignState(), nil
		}
		return nil, fmt.Errorf("load campaign state: %w", err)
	}

	var state domain.CampaignState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal campaign state: %w", err)
	}
	if state.Campaigns == nil {
		state.Campaigns = []*domain.Campaign{}
	}
	return &state, nil
}

// Save upserts the full state document, stamping UpdatedAt.
func (r *StateRepository) Save(ctx context.Context, state *domain.CampaignState) error {
	if state == nil {
		return storage.ErrInvalidInput
	}
	state.UpdatedAt = r.now()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal campaign state: %w", err)
	}

	query := `
		INSERT INTO campaign_state (id, version, updated_at, state)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at,
			state = EXCLUDED.state
	`
	if _, err := r.pool.Exec(ctx, query, state.Version, state.UpdatedAt, raw); err != nil {
		return fmt.Errorf("save campaign state: %w", err)
	}
	return nil
}
