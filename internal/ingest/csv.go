// Package ingest parses draw history files into domain draws.
//
// The canonical input is a CSV export with one draw per row:
//
//	concurso,date,b1,...,b15[,p11,p12,p13,p14,p15]
//
// The five trailing prize columns are optional; old exports omit them and
// those draws simply carry no payout table. A header row is detected and
// skipped.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"lotofacil-lab/internal/domain"
)

// Column counts for the two accepted row shapes.
const (
	columnsBare       = 2 + domain.DrawSize
	columnsWithPrizes = columnsBare + (domain.PrizeMaxHits - domain.PrizeMinHits + 1)
)

// ErrNoDraws is returned when the input contains no data rows.
var ErrNoDraws = errors.New("no draws in input")

// ParseCSV reads draws from r. Rows must be ordered by concurso ASC in the
// result; input order is not trusted. Duplicate concursos are an error.
func ParseCSV(r io.Reader) ([]*domain.Draw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated per row, two shapes accepted
	cr.TrimLeadingSpace = true

	var draws []*domain.Draw
	seen := make(map[int]struct{})

	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		if line == 1 && isHeader(record) {
			continue
		}

		d, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := seen[d.Concurso]; dup {
			return nil, fmt.Errorf("line %d: duplicate concurso %d", line, d.Concurso)
		}
		seen[d.Concurso] = struct{}{}
		draws = append(draws, d)
	}

	if len(draws) == 0 {
		return nil, ErrNoDraws
	}

	sort.Slice(draws, func(i, j int) bool {
		return draws[i].Concurso < draws[j].Concurso
	})
	return draws, nil
}

// isHeader reports whether the first record looks like a column header.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(record[0]))
	return err != nil
}

func parseRow(record []string) (*domain.Draw, error) {
	if len(record) != columnsBare && len(record) != columnsWithPrizes {
		return nil, fmt.Errorf("expected %d or %d columns, got %d", columnsBare, columnsWithPrizes, len(record))
	}

	concurso, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil || concurso <= 0 {
		return nil, fmt.Errorf("invalid concurso %q", record[0])
	}

	date := strings.TrimSpace(record[1])
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
	}

	numbers := make([]int, 0, domain.DrawSize)
	set := make(map[int]struct{}, domain.DrawSize)
	for _, field := range record[2 : 2+domain.DrawSize] {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		if n < domain.UniverseMin || n > domain.UniverseMax {
			return nil, fmt.Errorf("number %d outside universe %d..%d", n, domain.UniverseMin, domain.UniverseMax)
		}
		if _, dup := set[n]; dup {
			return nil, fmt.Errorf("repeated number %d", n)
		}
		set[n] = struct{}{}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	d := &domain.Draw{Concurso: concurso, Date: date, Numbers: numbers}

	if len(record) == columnsWithPrizes {
		payouts := make(map[int]float64)
		for i, field := range record[columnsBare:] {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			prize, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid prize %q", field)
			}
			if prize < 0 {
				return nil, fmt.Errorf("negative prize %q", field)
			}
			if prize > 0 {
				payouts[domain.PrizeMinHits+i] = prize
			}
		}
		if len(payouts) > 0 {
			d.Payouts = payouts
		}
	}
	return d, nil
}
