package campaign

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lotofacil-lab/internal/domain"
	"lotofacil-lab/internal/idhash"
)

var campaignGame = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

// fixedStrategy freezes the same single game for every base.
type fixedStrategy struct{}

func (fixedStrategy) Generate(_ context.Context, history []*domain.Draw, _ int64) (*domain.Selection, error) {
	return &domain.Selection{
		StrategyID:   "FIXED",
		BaseConcurso: history[len(history)-1].Concurso,
		Games:        map[string][]int{"S16": append([]int(nil), campaignGame...)},
	}, nil
}

func (fixedStrategy) ID() string { return "FIXED" }

// drawWithHits builds a draw sharing exactly `hits` numbers with campaignGame.
func drawWithHits(concurso, hits int) *domain.Draw {
	nums := make([]int, 0, 15)
	nums = append(nums, campaignGame[:hits]...)
	for n := 16; len(nums) < 15; n++ {
		nums = append(nums, n)
	}
	return &domain.Draw{Concurso: concurso, Numbers: nums}
}

func testManager() *Manager {
	return NewManager(fixedStrategy{}, Config{WindowLength: 3, WinThreshold: 14}).
		WithClock(func() time.Time { return time.Date(2026, 8, 24, 4, 30, 0, 0, time.UTC) })
}

func activeCampaign(target, window, threshold int) *domain.Campaign {
	return &domain.Campaign{
		ID:            ComputeID(target-1, "2026-08-24"),
		Status:        domain.CampaignActive,
		CreatedOn:     "2026-08-24",
		StartConcurso: target - 1,
		TargetStart:   target,
		WindowLength:  window,
		WinThreshold:  threshold,
		Selection: &domain.Selection{
			StrategyID:   "FIXED",
			BaseConcurso: target - 1,
			Games:        map[string][]int{"S16": append([]int(nil), campaignGame...)},
		},
		Checks: []*domain.Check{},
	}
}

func TestComputeID(t *testing.T) {
	require.Equal(t, "c_3012_20260824", ComputeID(3012, "2026-08-24"))
}

func TestAdvance_WinOnThirdDraw(t *testing.T) {
	// Window 11..13, threshold 14: hits 10, 11, then 14. The campaign must
	// close as won on concurso 13 and never look at concurso 14.
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	draws := []*domain.Draw{
		drawWithHits(11, 10),
		drawWithHits(12, 11),
		drawWithHits(13, 14),
		drawWithHits(14, 15), // beyond the win, must be ignored
	}

	delta := m.Advance(state, draws)

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignWon, c.Status)
	require.NotNil(t, c.Outcome)
	require.Equal(t, 13, c.Outcome.Concurso)
	require.Equal(t, 14, c.Outcome.Hits)
	require.Len(t, c.Checks, 3, "no check beyond the winning draw")
	require.Len(t, delta.Won, 1)
	require.Len(t, delta.Checks, 3)
}

func TestAdvance_FirstQualifyingWinsNotBest(t *testing.T) {
	// Concurso 12 qualifies with 14 hits; concurso 13 would have 15.
	// First-to-qualify wins, ties broken by event order.
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	draws := []*domain.Draw{
		drawWithHits(11, 9),
		drawWithHits(12, 14),
		drawWithHits(13, 15),
	}
	m.Advance(state, draws)

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignWon, c.Status)
	require.Equal(t, 12, c.Outcome.Concurso)
	require.Equal(t, 14, c.Outcome.Hits)
}

func TestAdvance_ExpiresAfterFullWindow(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	draws := []*domain.Draw{
		drawWithHits(11, 10),
		drawWithHits(12, 11),
		drawWithHits(13, 9),
	}
	delta := m.Advance(state, draws)

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignExpired, c.Status)
	require.Equal(t, ExpireReasonWindowExhausted, c.ExpireReason)
	require.Nil(t, c.Outcome)
	require.Len(t, c.Checks, 3)
	require.Len(t, delta.Expired, 1)
}

func TestAdvance_WindowNotReachedYet(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	delta := m.Advance(state, []*domain.Draw{drawWithHits(9, 12), drawWithHits(10, 12)})

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignActive, c.Status)
	require.Empty(t, c.Checks)
	require.Empty(t, delta.Checks)
}

func TestAdvance_PartialWindowStaysActive(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	delta := m.Advance(state, []*domain.Draw{drawWithHits(11, 10)})

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignActive, c.Status)
	require.Len(t, c.Checks, 1)
	require.Len(t, delta.Checks, 1)
}

func TestAdvance_DataGapExpiry(t *testing.T) {
	// Concursos 12 and 13 never appear, and the stream has moved past the
	// window end: the campaign must still reach a terminal state.
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	draws := []*domain.Draw{
		drawWithHits(11, 10),
		drawWithHits(15, 12), // gap: 12..14 missing, 15 past the window
	}
	delta := m.Advance(state, draws)

	c := state.Campaigns[0]
	require.Equal(t, domain.CampaignExpired, c.Status)
	require.Equal(t, ExpireReasonDataGap, c.ExpireReason)
	require.Len(t, c.Checks, 1)
	require.Len(t, delta.Expired, 1)
}

func TestAdvance_IdempotentOnRerun(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()
	state.Campaigns = append(state.Campaigns, activeCampaign(11, 3, 14))

	draws := []*domain.Draw{drawWithHits(11, 10), drawWithHits(12, 11)}

	m.Advance(state, draws)
	first, err := json.Marshal(state)
	require.NoError(t, err)

	delta := m.Advance(state, draws)
	second, err := json.Marshal(state)
	require.NoError(t, err)

	require.Empty(t, delta.Checks, "already-checked concursos must be skipped")
	require.Equal(t, string(first), string(second), "re-run must leave the state byte-identical")
}

func TestAdvance_TerminalCampaignIsNoOp(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()

	won := activeCampaign(11, 3, 14)
	won.Status = domain.CampaignWon
	won.Outcome = &domain.WinOutcome{Concurso: 11, Hits: 14, Game: "S16"}
	state.Campaigns = append(state.Campaigns, won)

	before, err := json.Marshal(state)
	require.NoError(t, err)

	delta := m.Advance(state, []*domain.Draw{drawWithHits(12, 15), drawWithHits(13, 15)})
	after, err := json.Marshal(state)
	require.NoError(t, err)

	require.Empty(t, delta.Checks)
	require.Empty(t, delta.Won)
	require.Equal(t, string(before), string(after))
}

func TestOpenIfPassed_GateFailed(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()

	opened, err := m.OpenIfPassed(context.Background(), state, domain.GateDecision{Pass: false}, []*domain.Draw{drawWithHits(10, 10)})
	require.NoError(t, err)
	require.Nil(t, opened)
	require.Empty(t, state.Campaigns)
}

func TestOpenIfPassed_OpensFrozenCampaign(t *testing.T) {
	m := testManager()
	state := domain.NewCampaignState()
	draws := []*domain.Draw{drawWithHits(9, 10), drawWithHits(10, 10)}

	opened, err := m.OpenIfPassed(context.Background(), state, domain.GateDecision{Pass: true}, draws)
	require.NoError(t, err)
	require.NotNil(t, opened)

	require.Equal(t, "c_10_20260824", opened.ID)
	require.Equal(t, domain.CampaignActive, opened.Status)
	require.Equal(t, 10, opened.StartConcurso)
	require.Equal(t, 11, opened.TargetStart)
	require.Equal(t, 3, opened.WindowLength)
	require.Equal(t, 14, opened.WinThreshold)
	require.Equal(t, 10, opened.Selection.BaseConcurso)
	require.Equal(t, idhash.ComputeSelectionID(opened.Selection), opened.SelectionID)
	require.Len(t, state.Campaigns, 1)
}

func TestOpenIfPassed_DedupeByStartOrTarget(t *testing.T) {
	m := testManager()
	ctx := context.Background()
	draws := []*domain.Draw{drawWithHits(10, 10)}

	state := domain.NewCampaignState()
	first, err := m.OpenIfPassed(ctx, state, domain.GateDecision{Pass: true}, draws)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same data, same start: silently absorbed.
	second, err := m.OpenIfPassed(ctx, state, domain.GateDecision{Pass: true}, draws)
	require.NoError(t, err)
	require.Nil(t, second)
	require.Len(t, state.Campaigns, 1)

	// Terminal campaigns anchored at the same concursos block too.
	state = domain.NewCampaignState()
	blocker := activeCampaign(11, 3, 14) // start 10, target 11
	blocker.Status = domain.CampaignExpired
	state.Campaigns = append(state.Campaigns, blocker)

	third, err := m.OpenIfPassed(ctx, state, domain.GateDecision{Pass: true}, draws)
	require.NoError(t, err)
	require.Nil(t, third)
	require.Len(t, state.Campaigns, 1)
}

func TestOpenIfPassed_ConcurrentCampaigns(t *testing.T) {
	// The gate may pass on several days before earlier campaigns resolve:
	// campaigns are independent trials.
	m := testManager()
	ctx := context.Background()
	state := domain.NewCampaignState()

	first, err := m.OpenIfPassed(ctx, state, domain.GateDecision{Pass: true}, []*domain.Draw{drawWithHits(10, 10)})
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := m.OpenIfPassed(ctx, state, domain.GateDecision{Pass: true},
		[]*domain.Draw{drawWithHits(10, 10), drawWithHits(12, 10)})
	require.NoError(t, err)
	require.NotNil(t, second)

	require.Len(t, state.Campaigns, 2)
	require.Len(t, state.Active(), 2)
}

func TestOpenIfPassed_NoDraws(t *testing.T) {
	m := testManager()
	_, err := m.OpenIfPassed(context.Background(), domain.NewCampaignState(), domain.GateDecision{Pass: true}, nil)
	require.ErrorIs(t, err, ErrNoDraws)
}
