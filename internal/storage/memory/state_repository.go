package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// StateRepository is an in-memory implementation of storage.StateRepository.
type StateRepository struct {
	mu    sync.RWMutex
	state *domain.CampaignState
	now   func() time.Time
}

// NewStateRepository creates a new in-memory state repository.
func NewStateRepository() *StateRepository {
	return &StateRepository{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock for deterministic UpdatedAt stamps in tests.
func (r *StateRepository) WithClock(now func() time.Time) *StateRepository {
	r.now = now
	return r
}

// Load retrieves the persisted state, or a fresh versioned empty state if
// nothing has been saved yet.
func (r *StateRepository) Load(_ context.Context) (*domain.CampaignState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state == nil {
		return domain.NewCampaignState(), nil
	}
	return cloneState(r.state)
}

// Save persists the full state, stamping UpdatedAt.
func (r *StateRepository) Save(_ context.Context, state *domain.CampaignState) error {
	if state == nil {
		return storage.ErrInvalidInput
	}

	state.UpdatedAt = r.now()
	clone, err := cloneState(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = clone
	return nil
}

// cloneState deep-copies the aggregate through its JSON form, the same shape
// the durable repositories persist.
func cloneState(s *domain.CampaignState) (*domain.CampaignState, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal campaign state: %w", err)
	}
	var clone domain.CampaignState
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("unmarshal campaign state: %w", err)
	}
	return &clone, nil
}

// Verify interface compliance at compile time.
var _ storage.StateRepository = (*StateRepository)(nil)
