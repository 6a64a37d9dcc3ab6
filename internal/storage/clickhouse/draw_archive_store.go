package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// DrawArchiveStore implements storage.DrawStore on ClickHouse. MergeTree
// does not enforce uniqueness at insert time, so duplicates are rejected by
// an explicit existence check before each batch.
type DrawArchiveStore struct {
	conn *Conn
}

// NewDrawArchiveStore creates a new DrawArchiveStore.
func NewDrawArchiveStore(conn *Conn) *DrawArchiveStore {
	return &DrawArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DrawStore = (*DrawArchiveStore)(nil)

// Insert adds a new draw. Returns ErrDuplicateKey if the concurso exists.
func (s *DrawArchiveStore) Insert(ctx context.Context, d *domain.Draw) error {
	return s.InsertBulk(ctx, []*domain.Draw{d})
}

// InsertBulk adds multiple draws as one batch. Fails entire batch on any
// duplicate, against both the batch itself and existing rows.
func (s *DrawArchiveStore) InsertBulk(ctx context.Context, draws []*domain.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(draws))
	for _, d := range draws {
		if d == nil || d.Concurso <= 0 || len(d.Numbers) != domain.DrawSize {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[d.Concurso]; dup {
			return storage.ErrDuplicateKey
		}
		seen[d.Concurso] = struct{}{}
	}

	for _, d := range draws {
		exists, err := s.exists(ctx, d.Concurso)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO draw_archive (concurso, draw_date, numbers, payouts)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, d := range draws {
		payouts, err := encodePayouts(d)
		if err != nil {
			return err
		}
		if err := batch.Append(uint32(d.Concurso), d.Date, toUint16s(d.Numbers), payouts); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetAll retrieves every draw, ordered by concurso ASC.
func (s *DrawArchiveStore) GetAll(ctx context.Context) ([]*domain.Draw, error) {
	query := `
		SELECT concurso, draw_date, numbers, payouts
		FROM draw_archive
		ORDER BY concurso ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all draws: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// GetByRange retrieves draws with concurso within [start, end] (inclusive).
func (s *DrawArchiveStore) GetByRange(ctx context.Context, start, end int) ([]*domain.Draw, error) {
	query := `
		SELECT concurso, draw_date, numbers, payouts
		FROM draw_archive
		WHERE concurso >= ? AND concurso <= ?
		ORDER BY concurso ASC
	`

	rows, err := s.conn.Query(ctx, query, uint32(start), uint32(end))
	if err != nil {
		return nil, fmt.Errorf("query draws by range: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// GetLatest retrieves the draw with the highest concurso.
func (s *DrawArchiveStore) GetLatest(ctx context.Context) (*domain.Draw, error) {
	query := `
		SELECT concurso, draw_date, numbers, payouts
		FROM draw_archive
		ORDER BY concurso DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest draw: %w", err)
	}
	defer rows.Close()

	draws, err := scanDraws(rows)
	if err != nil {
		return nil, err
	}
	if len(draws) == 0 {
		return nil, storage.ErrNotFound
	}
	return draws[0], nil
}

// exists checks if a draw with the given concurso exists.
func (s *DrawArchiveStore) exists(ctx context.Context, concurso int) (bool, error) {
	query := `SELECT count(*) FROM draw_archive WHERE concurso = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, uint32(concurso)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// encodePayouts serializes the sparse payout table as a JSON string column.
func encodePayouts(d *domain.Draw) (string, error) {
	payouts := d.Payouts
	if payouts == nil {
		payouts = map[int]float64{}
	}
	raw, err := json.Marshal(payouts)
	if err != nil {
		return "", fmt.Errorf("marshal payouts for draw %d: %w", d.Concurso, err)
	}
	return string(raw), nil
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanDraws scans multiple rows into a slice of Draw.
func scanDraws(rows chRows) ([]*domain.Draw, error) {
	var draws []*domain.Draw

	for rows.Next() {
		var (
			d        domain.Draw
			concurso uint32
			numbers  []uint16
			payouts  string
		)
		if err := rows.Scan(&concurso, &d.Date, &numbers, &payouts); err != nil {
			return nil, fmt.Errorf("scan draw row: %w", err)
		}

		d.Concurso = int(concurso)
		d.Numbers = toIntsFrom16(numbers)
		if payouts != "" {
			if err := json.Unmarshal([]byte(payouts), &d.Payouts); err != nil {
				return nil, fmt.Errorf("unmarshal payouts for draw %d: %w", d.Concurso, err)
			}
		}
		if len(d.Payouts) == 0 {
			d.Payouts = nil
		}
		draws = append(draws, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draw rows: %w", err)
	}
	return draws, nil
}

func toUint16s(xs []int) []uint16 {
	out := make([]uint16, len(xs))
	for i, x := range xs {
		out[i] = uint16(x)
	}
	return out
}

func toIntsFrom16(xs []uint16) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}
