package domain

import "sort"

// Selection is a frozen set of named games produced by a strategy at a
// given history cutoff. Campaigns keep the selection they were created
// with and never regenerate it.
type Selection struct {
	StrategyID   string           `json:"strategy_id"`
	BaseConcurso int              `json:"base_concurso"`
	Games        map[string][]int `json:"games"` // game label -> sorted numbers
}

// GameLabels returns game labels in deterministic order.
func (s *Selection) GameLabels() []string {
	labels := make([]string, 0, len(s.Games))
	for label := range s.Games {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Clone returns a deep copy of the selection.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	games := make(map[string][]int, len(s.Games))
	for label, nums := range s.Games {
		cp := make([]int, len(nums))
		copy(cp, nums)
		games[label] = cp
	}
	return &Selection{
		StrategyID:   s.StrategyID,
		BaseConcurso: s.BaseConcurso,
		Games:        games,
	}
}
