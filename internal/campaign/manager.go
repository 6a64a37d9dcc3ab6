// Package campaign advances the persisted campaign state machine against
// newly available draws and opens new campaigns when the gate passes.
// Every operation is idempotent: re-running against the same draws leaves
// the state byte-identical.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/idhash"
	"lotofacil-lab/internal/strategy"
)

// Expire reasons.
const (
	ExpireReasonWindowExhausted = "window exhausted without a win"
	ExpireReasonDataGap         = "window elapsed without full evaluation"
)

// ErrNoDraws is returned when a campaign would be opened with no draw history.
var ErrNoDraws = errors.New("no draws available")

// Config holds the parameters applied to newly opened campaigns.
type Config struct {
	WindowLength int // draws a campaign may span (teimosinha window)
	WinThreshold int // hits that close a campaign as won
}

// CheckUpdate pairs a freshly recorded check with its campaign.
type CheckUpdate struct {
	CampaignID string
	Check      *domain.Check
}

// RunDelta collects what changed during one Advance/Open cycle, for the
// reporter to render. Slices hold pointers into the state: the state owns
// the campaigns.
type RunDelta struct {
	Opened  *domain.Campaign
	Won     []*domain.Campaign
	Expired []*domain.Campaign
	Checks  []CheckUpdate
}

// Manager is the campaign lifecycle manager. It mutates the in-memory
// state only; loading and persisting the state is the caller's job,
// exactly once per run.
type Manager struct {
	strategy strategy.Strategy
	cfg      Config
	now      func() time.Time
}

// NewManager creates a campaign manager with the injected strategy.
func NewManager(s strategy.Strategy, cfg Config) *Manager {
	return &Manager{
		strategy: s,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock for deterministic campaign IDs in tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Advance evaluates every active campaign against the draws now available
// inside its window. Checks are keyed by concurso, so indices already
// checked in earlier runs are skipped; terminal campaigns are never
// touched. Draws must be ordered by concurso ASC.
func (m *Manager) Advance(state *domain.CampaignState, draws []*domain.Draw) *RunDelta {
	delta := &RunDelta{}
	if len(draws) == 0 {
		return delta
	}

	byConcurso := make(map[int]*domain.Draw, len(draws))
	for _, d := range draws {
		byConcurso[d.Concurso] = d
	}
	maxAvailable := draws[len(draws)-1].Concurso

	for _, c := range state.Campaigns {
		if c.Status != domain.CampaignActive {
			continue
		}
		m.advanceOne(c, byConcurso, maxAvailable, delta)
	}
	return delta
}

func (m *Manager) advanceOne(c *domain.Campaign, byConcurso map[int]*domain.Draw, maxAvailable int, delta *RunDelta) {
	if maxAvailable < c.TargetStart {
		// Window not reached yet.
		return
	}

	end := c.WindowEnd()
	last := end
	if maxAvailable < last {
		last = maxAvailable
	}

	for concurso := c.TargetStart; concurso <= last; concurso++ {
		draw, ok := byConcurso[concurso]
		if !ok || c.Checked(concurso) {
			continue
		}

		check := evaluateDraw(c.Selection, draw)
		c.Checks = append(c.Checks, check)
		delta.Checks = append(delta.Checks, CheckUpdate{CampaignID: c.ID, Check: check})

		// First qualifying hit wins, in event order; remaining window
		// draws are never evaluated.
		if check.BestHits >= c.WinThreshold {
			c.Status = domain.CampaignWon
			c.Outcome = &domain.WinOutcome{
				Concurso: check.Concurso,
				Hits:     check.BestHits,
				Game:     check.BestGame,
			}
			delta.Won = append(delta.Won, c)
			return
		}
	}

	if len(c.Checks) >= c.WindowLength {
		c.Status = domain.CampaignExpired
		c.ExpireReason = ExpireReasonWindowExhausted
		delta.Expired = append(delta.Expired, c)
		return
	}

	// The stream moved past the window with draws missing inside it:
	// expire so every campaign reaches a terminal state even under
	// irregular delivery.
	if maxAvailable > end {
		c.Status = domain.CampaignExpired
		c.ExpireReason = ExpireReasonDataGap
		delta.Expired = append(delta.Expired, c)
	}
}

// evaluateDraw scores every game of the frozen selection against the draw
// and records the best one.
func evaluateDraw(sel *domain.Selection, draw *domain.Draw) *domain.Check {
	check := &domain.Check{
		Concurso: draw.Concurso,
		Date:     draw.Date,
		BestHits: -1,
		PerGame:  make(map[string]int, len(sel.Games)),
	}
	for _, label := range sel.GameLabels() {
		hits := draw.Hits(sel.Games[label])
		check.PerGame[label] = hits
		if hits > check.BestHits {
			check.BestHits = hits
			check.BestGame = label
		}
	}
	return check
}

// OpenIfPassed opens a new campaign anchored at the last known concurso
// when the gate passed. A campaign already anchored at the same start or
// target concurso, in any status, silently absorbs the attempt. The
// selection is frozen at creation and never regenerated.
func (m *Manager) OpenIfPassed(ctx context.Context, state *domain.CampaignState, decision domain.GateDecision, draws []*domain.Draw) (*domain.Campaign, error) {
	if !decision.Pass {
		return nil, nil
	}
	if len(draws) == 0 {
		return nil, ErrNoDraws
	}

	start := draws[len(draws)-1].Concurso
	target := start + 1
	if state.HasCampaignAt(start, target) {
		return nil, nil
	}

	sel, err := m.strategy.Generate(ctx, draws, int64(start))
	if err != nil {
		return nil, fmt.Errorf("freeze selection for campaign at %d: %w", start, err)
	}

	createdOn := m.now().Format("2006-01-02")
	c := &domain.Campaign{
		ID:            ComputeID(start, createdOn),
		Status:        domain.CampaignActive,
		CreatedOn:     createdOn,
		StartConcurso: start,
		TargetStart:   target,
		WindowLength:  m.cfg.WindowLength,
		WinThreshold:  m.cfg.WinThreshold,
		Selection:     sel,
		SelectionID:   idhash.ComputeSelectionID(sel),
		Checks:        []*domain.Check{},
	}
	state.Campaigns = append(state.Campaigns, c)
	return c, nil
}
