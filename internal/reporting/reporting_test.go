package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lotofacil-lab/internal/campaign"
	"lotofacil-lab/internal/domain"
)

func fullReport() *RunReport {
	won := &domain.Campaign{
		ID:            "c_10_20260820",
		Status:        domain.CampaignWon,
		StartConcurso: 10,
		TargetStart:   11,
		WindowLength:  3,
		WinThreshold:  14,
		Checks: []*domain.Check{
			{Concurso: 11, BestHits: 10, BestGame: "P1"},
			{Concurso: 12, BestHits: 14, BestGame: "P2"},
		},
		Outcome: &domain.WinOutcome{Concurso: 12, Hits: 14, Game: "P2"},
	}
	expired := &domain.Campaign{
		ID:            "c_8_20260818",
		Status:        domain.CampaignExpired,
		StartConcurso: 8,
		TargetStart:   9,
		WindowLength:  3,
		WinThreshold:  14,
		ExpireReason:  "window exhausted without a win",
		Checks: []*domain.Check{
			{Concurso: 9, BestHits: 9, BestGame: "P1"},
			{Concurso: 10, BestHits: 10, BestGame: "P1"},
			{Concurso: 11, BestHits: 8, BestGame: "P3"},
		},
	}
	active := &domain.Campaign{
		ID:            "c_13_20260824",
		Status:        domain.CampaignActive,
		StartConcurso: 13,
		TargetStart:   14,
		WindowLength:  3,
		WinThreshold:  14,
		Checks:        []*domain.Check{{Concurso: 14, BestHits: 11, BestGame: "S16"}},
		Selection: &domain.Selection{
			StrategyID:   "APOSTA16",
			BaseConcurso: 13,
			Games:        map[string][]int{"S16": {16, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		},
	}

	return &RunReport{
		RunID:   "run-1",
		RunDate: "2026-08-24",
		Latest:  &domain.Draw{Concurso: 14, Date: "2026-08-24"},
		Decision: domain.GateDecision{
			PercentileLow: 25, PercentileHigh: 75,
			BandLow: 2, BandHigh: 6,
			CurrentGap: 3, LastEligible: 11, LastSuccess: 8,
			Wins: 4, Trials: 9, WinRate: 4.0 / 9.0,
			Pass: true, Reason: "current gap inside historical band",
		},
		History: []*domain.SuccessRecord{
			{Concurso: 1, Success: false, BestHits: 9, Profit: -10.5},
			{Concurso: 2, Success: true, BestHits: 14, Profit: 1489.5},
		},
		Opened:  active,
		Won:     []*domain.Campaign{won},
		Expired: []*domain.Campaign{expired},
		Checks: []campaign.CheckUpdate{
			{CampaignID: active.ID, Check: active.Checks[0]},
		},
		Active: []*domain.Campaign{active},
	}
}

func TestRenderDigest_AllSections(t *testing.T) {
	out := RenderDigest(fullReport())

	require.Contains(t, out, "Lotofácil ABCD — Daily Summary")
	require.Contains(t, out, "Latest concurso: 14 | Date: 2026-08-24")
	require.Contains(t, out, "gate_pass (today): true")
	require.Contains(t, out, "Percentiles: [25, 75] | Band: [2.0, 6.0] | Current gap: 3")
	require.Contains(t, out, "=== NEW CAMPAIGNS OPENED TODAY ===")
	require.Contains(t, out, "c_13_20260824 | start=13 -> target_start=14 | window=3")
	require.Contains(t, out, "=== CAMPAIGNS CLOSED (WON >=14) ===")
	require.Contains(t, out, "won at concurso 12 with 14 hits")
	require.Contains(t, out, "=== CAMPAIGNS CLOSED (EXPIRED) ===")
	require.Contains(t, out, "expired after 3 checks (window exhausted without a win)")
	require.Contains(t, out, "=== TODAY'S CHECKS (per campaign) ===")
	require.Contains(t, out, "concurso 14 | best_hits=11 | best_game=S16")
	require.Contains(t, out, "=== ACTIVE CAMPAIGNS (reminder) ===")
	require.Contains(t, out, "checks 1/3 | remaining=2")
	// Game numbers are rendered sorted.
	require.Contains(t, out, "S16: 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16")
}

func TestRenderDigest_QuietDay(t *testing.T) {
	r := &RunReport{
		RunDate: "2026-08-24",
		Latest:  &domain.Draw{Concurso: 14, Date: "2026-08-24"},
		Decision: domain.GateDecision{
			PercentileLow: 25, PercentileHigh: 75,
			Reason: "current gap outside historical band",
		},
	}
	out := RenderDigest(r)

	require.Contains(t, out, "gate_pass (today): false")
	require.NotContains(t, out, "===", "no sections on a day with no campaign activity")
}

func TestRenderSuccessHistoryCSV(t *testing.T) {
	out := RenderSuccessHistoryCSV(fullReport().History)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "concurso,success,best_hits,profit", lines[0])
	require.Equal(t, "1,false,9,-10.50", lines[1])
	require.Equal(t, "2,true,14,1489.50", lines[2])
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(fullReport())

	require.Contains(t, out, "# Daily Gate Report")
	require.Contains(t, out, "| Pass | true |")
	require.Contains(t, out, "| Band | [2.0, 6.0] |")
	require.Contains(t, out, "| c_10_20260820 | won | 10 | 11 | 2 | 14 hits at 12 |")
	require.Contains(t, out, "| c_8_20260818 | expired | 8 | 9 | 3 | window exhausted without a win |")
	require.Contains(t, out, "| c_13_20260824 | active | 13 | 14 | 1 | - |")
}

func TestRenderMarkdown_NoActivity(t *testing.T) {
	out := RenderMarkdown(&RunReport{RunID: "run-2", RunDate: "2026-08-24"})
	require.Contains(t, out, "No campaign activity.")
}
