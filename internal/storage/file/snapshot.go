package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SnapshotWriter archives one JSON document per run day under
// root/YYYY/MM/YYYY-MM-DD.json. Snapshots are audit artifacts: a re-run on
// the same day overwrites that day's file with the recomputed result.
type SnapshotWriter struct {
	root string
}

// NewSnapshotWriter creates a writer rooted at the given directory.
func NewSnapshotWriter(root string) *SnapshotWriter {
	return &SnapshotWriter{root: root}
}

// Write marshals v and stores it at the dated path, returning the path.
func (w *SnapshotWriter) Write(day time.Time, v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Join(w.root, day.Format("2006"), day.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, day.Format("2006-01-02")+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}
