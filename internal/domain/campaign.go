package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign.
// Transitions: active -> won, active -> expired. Won and expired are terminal.
type CampaignStatus string

// Campaign status constants.
const (
	CampaignActive  CampaignStatus = "active"
	CampaignWon     CampaignStatus = "won"
	CampaignExpired CampaignStatus = "expired"
)

// Check records the evaluation of one draw against a campaign's selection.
// Checks are append-only and unique per concurso.
type Check struct {
	Concurso int            `json:"concurso"`
	Date     string         `json:"date,omitempty"`
	BestHits int            `json:"best_hits"`
	BestGame string         `json:"best_game"`
	PerGame  map[string]int `json:"per_game,omitempty"`
}

// WinOutcome records the first qualifying check of a won campaign.
type WinOutcome struct {
	Concurso int    `json:"concurso"`
	Hits     int    `json:"hits"`
	Game     string `json:"game"`
}

// Campaign is a bounded-window trial opened when the gate passes.
// It is tracked against subsequent draws until it wins or its window
// is exhausted. Closed campaigns stay in the store as history.
type Campaign struct {
	ID            string         `json:"id"`
	Status        CampaignStatus `json:"status"`
	CreatedOn     string         `json:"created_on"` // ISO date
	StartConcurso int            `json:"start_concurso"`
	TargetStart   int            `json:"target_start_concurso"`
	WindowLength  int            `json:"window_length"`
	WinThreshold  int            `json:"win_threshold"`
	Selection     *Selection     `json:"selection"`
	SelectionID   string         `json:"selection_id"`
	Checks        []*Check       `json:"checks"`
	Outcome       *WinOutcome    `json:"outcome,omitempty"`
	ExpireReason  string         `json:"expire_reason,omitempty"`
}

// Terminal reports whether the campaign reached a terminal status.
func (c *Campaign) Terminal() bool {
	return c.Status == CampaignWon || c.Status == CampaignExpired
}

// WindowEnd returns the last concurso covered by the campaign window.
func (c *Campaign) WindowEnd() int {
	return c.TargetStart + c.WindowLength - 1
}

// Checked reports whether a check already exists for the concurso.
func (c *Campaign) Checked(concurso int) bool {
	for _, chk := range c.Checks {
		if chk.Concurso == concurso {
			return true
		}
	}
	return false
}

// CampaignState is the persisted aggregate owning all campaign records.
// It is read wholesale at the start of a run and written back wholesale
// at the end; campaigns are never deleted.
type CampaignState struct {
	Version   int         `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
	Campaigns []*Campaign `json:"campaigns"`
}

// StateVersion is the current campaign state schema version.
const StateVersion = 1

// NewCampaignState returns an empty versioned state.
func NewCampaignState() *CampaignState {
	return &CampaignState{
		Version:   StateVersion,
		Campaigns: []*Campaign{},
	}
}

// HasCampaignAt reports whether any campaign, in any status, is anchored
// at the given start or target concurso. Used as the idempotent open guard.
func (s *CampaignState) HasCampaignAt(start, target int) bool {
	for _, c := range s.Campaigns {
		if c.StartConcurso == start || c.TargetStart == target {
			return true
		}
	}
	return false
}

// Active returns all campaigns still in the active status.
func (s *CampaignState) Active() []*Campaign {
	var active []*Campaign
	for _, c := range s.Campaigns {
		if c.Status == CampaignActive {
			active = append(active, c)
		}
	}
	return active
}
