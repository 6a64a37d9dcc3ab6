package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/storage"
)

// DrawStore implements storage.DrawStore using PostgreSQL.
type DrawStore struct {
	pool *Pool
}

// NewDrawStore creates a new DrawStore.
func NewDrawStore(pool *Pool) *DrawStore {
	return &DrawStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DrawStore = (*DrawStore)(nil)

const drawColumns = "concurso, draw_date, numbers, payouts"

// Insert adds a new draw. Returns ErrDuplicateKey if the concurso exists.
func (s *DrawStore) Insert(ctx context.Context, d *domain.Draw) error {
	if d == nil || d.Concurso <= 0 || len(d.Numbers) != domain.DrawSize {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO draws (concurso, draw_date, numbers, payouts)
		VALUES ($1, $2, $3, $4)
	`

	date, payouts, err := encodeDraw(d)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, query, d.Concurso, date, toInt32s(d.Numbers), payouts)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

// InsertBulk adds multiple draws in one transaction. Fails entire batch on
// any duplicate.
func (s *DrawStore) InsertBulk(ctx context.Context, draws []*domain.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO draws (concurso, draw_date, numbers, payouts)
		VALUES ($1, $2, $3, $4)
	`
	for _, d := range draws {
		if d == nil || d.Concurso <= 0 || len(d.Numbers) != domain.DrawSize {
			return storage.ErrInvalidInput
		}
		date, payouts, err := encodeDraw(d)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, d.Concurso, date, toInt32s(d.Numbers), payouts); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert draw %d: %w", d.Concurso, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// GetAll retrieves every draw, ordered by concurso ASC.
func (s *DrawStore) GetAll(ctx context.Context) ([]*domain.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY concurso ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all draws: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// GetByRange retrieves draws with concurso within [start, end] (inclusive).
func (s *DrawStore) GetByRange(ctx context.Context, start, end int) ([]*domain.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE concurso >= $1 AND concurso <= $2
		ORDER BY concurso ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get draws by range: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// GetLatest retrieves the draw with the highest concurso.
func (s *DrawStore) GetLatest(ctx context.Context) (*domain.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY concurso DESC LIMIT 1`

	row := s.pool.QueryRow(ctx, query)
	d, err := scanDraw(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest draw: %w", err)
	}
	return d, nil
}

// encodeDraw prepares the nullable date and the payouts JSONB document.
func encodeDraw(d *domain.Draw) (*time.Time, []byte, error) {
	var date *time.Time
	if d.Date != "" {
		parsed, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: draw %d date %q", storage.ErrInvalidInput, d.Concurso, d.Date)
		}
		date = &parsed
	}

	payouts := d.Payouts
	if payouts == nil {
		payouts = map[int]float64{}
	}
	raw, err := json.Marshal(payouts)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payouts for draw %d: %w", d.Concurso, err)
	}
	return date, raw, nil
}

// scanDraw scans a single row into a Draw.
func scanDraw(row pgx.Row) (*domain.Draw, error) {
	var (
		d       domain.Draw
		date    *time.Time
		numbers []int32
		payouts []byte
	)

	if err := row.Scan(&d.Concurso, &date, &numbers, &payouts); err != nil {
		return nil, err
	}

	if date != nil {
		d.Date = date.Format("2006-01-02")
	}
	d.Numbers = toInts(numbers)
	if len(payouts) > 0 {
		if err := json.Unmarshal(payouts, &d.Payouts); err != nil {
			return nil, fmt.Errorf("unmarshal payouts for draw %d: %w", d.Concurso, err)
		}
	}
	if len(d.Payouts) == 0 {
		d.Payouts = nil
	}
	return &d, nil
}

// scanDraws scans multiple rows into a slice of Draw.
func scanDraws(rows pgx.Rows) ([]*domain.Draw, error) {
	var draws []*domain.Draw

	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draw row: %w", err)
		}
		draws = append(draws, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draw rows: %w", err)
	}
	return draws, nil
}

func toInt32s(xs []int) []int32 {
	out := make([]int32, len(xs))
	for i, x := range xs {
		out[i] = int32(x)
	}
	return out
}

func toInts(xs []int32) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}
