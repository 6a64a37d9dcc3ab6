package memory

import (
	"context"
	"sort"
	"sync"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// DrawStore is an in-memory implementation of storage.DrawStore.
type DrawStore struct {
	mu   sync.RWMutex
	data map[int]*domain.Draw // keyed by concurso
}

// NewDrawStore creates a new in-memory draw store.
func NewDrawStore() *DrawStore {
	return &DrawStore{
		data: make(map[int]*domain.Draw),
	}
}

// Insert adds a new draw. Returns ErrDuplicateKey if the concurso exists.
func (s *DrawStore) Insert(_ context.Context, d *domain.Draw) error {
	if d == nil || d.Concurso <= 0 || len(d.Numbers) != domain.DrawSize {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[d.Concurso]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[d.Concurso] = cloneDraw(d)
	return nil
}

// InsertBulk adds multiple draws atomically. Fails entire batch on any duplicate.
func (s *DrawStore) InsertBulk(_ context.Context, draws []*domain.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int]struct{}, len(draws))
	for _, d := range draws {
		if d == nil || d.Concurso <= 0 || len(d.Numbers) != domain.DrawSize {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[d.Concurso]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[d.Concurso]; exists {
			return storage.ErrDuplicateKey
		}
		seen[d.Concurso] = struct{}{}
	}

	for _, d := range draws {
		s.data[d.Concurso] = cloneDraw(d)
	}
	return nil
}

// GetAll retrieves every draw, ordered by concurso ASC.
func (s *DrawStore) GetAll(_ context.Context) ([]*domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Draw, 0, len(s.data))
	for _, d := range s.data {
		result = append(result, cloneDraw(d))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Concurso < result[j].Concurso
	})
	return result, nil
}

// GetByRange retrieves draws with concurso within [start, end] (inclusive).
func (s *DrawStore) GetByRange(_ context.Context, start, end int) ([]*domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Draw
	for _, d := range s.data {
		if d.Concurso >= start && d.Concurso <= end {
			result = append(result, cloneDraw(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Concurso < result[j].Concurso
	})
	return result, nil
}

// GetLatest retrieves the draw with the highest concurso.
func (s *DrawStore) GetLatest(_ context.Context) (*domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Draw
	for _, d := range s.data {
		if latest == nil || d.Concurso > latest.Concurso {
			latest = d
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return cloneDraw(latest), nil
}

// cloneDraw deep-copies a draw so callers cannot mutate stored records.
func cloneDraw(d *domain.Draw) *domain.Draw {
	c := *d
	c.Numbers = append([]int(nil), d.Numbers...)
	if d.Payouts != nil {
		c.Payouts = make(map[int]float64, len(d.Payouts))
		for k, v := range d.Payouts {
			c.Payouts[k] = v
		}
	}
	return &c
}

// Verify interface compliance at compile time.
var _ storage.DrawStore = (*DrawStore)(nil)
