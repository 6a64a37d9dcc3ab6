// Package file persists the campaign state as a JSON document on disk.
// Writes are atomic (temp file + rename) so a crash mid-save never leaves
// a truncated state behind.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// ErrLocked is returned when another process holds the state lock file.
var ErrLocked = errors.New("state file locked by another run")

// StateRepository is a JSON-file implementation of storage.StateRepository.
type StateRepository struct {
	path string
	log  zerolog.Logger
	now  func() time.Time
}

// NewStateRepository creates a repository persisting to the given path.
func NewStateRepository(path string, log zerolog.Logger) *StateRepository {
	return &StateRepository{
		path: path,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock for deterministic UpdatedAt stamps in tests.
func (r *StateRepository) WithClock(now func() time.Time) *StateRepository {
	r.now = now
	return r
}

// Load reads the state file. A missing file yields a fresh versioned empty
// state. A corrupt file is logged and also yields a fresh state: losing
// campaign history to a damaged file is recoverable from the next runs,
// refusing to start is not.
func (r *StateRepository) Load(_ context.Context) (*domain.CampaignState, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewCampaignState(), nil
		}
		return nil, fmt.Errorf("read state file %s: %w", r.path, err)
	}

	var state domain.CampaignState
	if err := json.Unmarshal(raw, &state); err != nil {
		r.log.Warn().
			Str("path", r.path).
			Err(err).
			Msg("state file corrupt, starting from a fresh state")
		return domain.NewCampaignState(), nil
	}
	if state.Version == 0 {
		state.Version = domain.StateVersion
	}
	if state.Campaigns == nil {
		state.Campaigns = []*domain.Campaign{}
	}
	return &state, nil
}

// Save writes the full state atomically: marshal, write a temp file in the
// same directory, fsync, rename over the old file.
func (r *StateRepository) Save(_ context.Context, state *domain.CampaignState) error {
	if state == nil {
		return storage.ErrInvalidInput
	}
	state.UpdatedAt = r.now()

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal campaign state: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace state file %s: %w", r.path, err)
	}
	return nil
}

// Lock takes an advisory lock for the duration of a run by creating a
// sibling .lock file exclusively. Returns an unlock func, or ErrLocked if
// the file already exists. Runs are scheduled non-overlapping; the lock
// guards against operator mistakes, not high-frequency contention.
func (r *StateRepository) Lock() (func(), error) {
	lockPath := r.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("create lock file %s: %w", lockPath, err)
	}
	fmt.Fprintf(f, "pid %d at %s\n", os.Getpid(), r.now().Format(time.RFC3339))
	f.Close()

	return func() {
		if err := os.Remove(lockPath); err != nil {
			r.log.Warn().Str("path", lockPath).Err(err).Msg("failed to remove lock file")
		}
	}, nil
}

// Verify interface compliance at compile time.
var _ storage.StateRepository = (*StateRepository)(nil)
