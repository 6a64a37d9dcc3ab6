package domain

// Number universe for Lotofácil.
const (
	UniverseMin = 1
	UniverseMax = 25
	DrawSize    = 15
)

// Prize tiers. Hit counts below PrizeMinHits never pay.
const (
	PrizeMinHits = 11
	PrizeMaxHits = 15
)

// Draw represents one realized draw in the historical sequence.
// Draws are immutable and the draw store is append-only. Concurso numbers
// increase strictly but the stream is gap-tolerant: an index may be missing.
type Draw struct {
	Concurso int             `json:"concurso"`
	Date     string          `json:"date,omitempty"` // ISO date, empty for old records
	Numbers  []int           `json:"numbers"`        // 15 distinct numbers in 1..25, sorted ASC
	Payouts  map[int]float64 `json:"payouts,omitempty"`
}

// NumberSet returns the drawn numbers as a set.
func (d *Draw) NumberSet() map[int]bool {
	set := make(map[int]bool, len(d.Numbers))
	for _, n := range d.Numbers {
		set[n] = true
	}
	return set
}

// Hits counts how many numbers of game appear in the draw.
func (d *Draw) Hits(game []int) int {
	set := d.NumberSet()
	hits := 0
	for _, n := range game {
		if set[n] {
			hits++
		}
	}
	return hits
}

// PayoutFor returns the prize for a 15-number game with the given hit count.
// Absent table entries pay zero; hit counts outside 11..15 never pay.
func (d *Draw) PayoutFor(hits int) float64 {
	if hits < PrizeMinHits || hits > PrizeMaxHits {
		return 0
	}
	return d.Payouts[hits]
}
