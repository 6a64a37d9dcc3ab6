package reporting

import (
	"fmt"
	"sort"
	"strings"
)

// RenderDigest renders the daily plain-text digest, the body sent by the
// notifier. Sections appear only when they have content; an uneventful day
// is a short message.
func RenderDigest(r *RunReport) string {
	var sb strings.Builder

	sb.WriteString("Lotofácil ABCD — Daily Summary\n\n")
	sb.WriteString(fmt.Sprintf("Run date: %s\n", r.RunDate))
	if r.Latest != nil {
		sb.WriteString(fmt.Sprintf("Latest concurso: %d | Date: %s\n", r.Latest.Concurso, r.Latest.Date))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("gate_pass (today): %t\n", r.Decision.Pass))
	sb.WriteString(fmt.Sprintf("Percentiles: [%.0f, %.0f] | Band: [%.1f, %.1f] | Current gap: %d\n",
		r.Decision.PercentileLow, r.Decision.PercentileHigh,
		r.Decision.BandLow, r.Decision.BandHigh, r.Decision.CurrentGap))
	sb.WriteString(fmt.Sprintf("Reason: %s | Wins/Trials: %d/%d\n\n",
		r.Decision.Reason, r.Decision.Wins, r.Decision.Trials))

	if r.Opened != nil {
		sb.WriteString("=== NEW CAMPAIGNS OPENED TODAY ===\n")
		c := r.Opened
		sb.WriteString(fmt.Sprintf("- %s | start=%d -> target_start=%d | window=%d\n",
			c.ID, c.StartConcurso, c.TargetStart, c.WindowLength))
		sb.WriteString("\n")
	}

	if len(r.Won) > 0 {
		sb.WriteString(fmt.Sprintf("=== CAMPAIGNS CLOSED (WON >=%d) ===\n", winThreshold(r)))
		for _, c := range r.Won {
			sb.WriteString(fmt.Sprintf("- %s | start=%d | won at concurso %d with %d hits\n",
				c.ID, c.StartConcurso, c.Outcome.Concurso, c.Outcome.Hits))
		}
		sb.WriteString("\n")
	}

	if len(r.Expired) > 0 {
		sb.WriteString("=== CAMPAIGNS CLOSED (EXPIRED) ===\n")
		for _, c := range r.Expired {
			sb.WriteString(fmt.Sprintf("- %s | start=%d | expired after %d checks (%s)\n",
				c.ID, c.StartConcurso, len(c.Checks), c.ExpireReason))
		}
		sb.WriteString("\n")
	}

	if len(r.Checks) > 0 {
		sb.WriteString("=== TODAY'S CHECKS (per campaign) ===\n")
		for _, u := range r.Checks {
			sb.WriteString(fmt.Sprintf("- %s | concurso %d | best_hits=%d | best_game=%s\n",
				u.CampaignID, u.Check.Concurso, u.Check.BestHits, u.Check.BestGame))
		}
		sb.WriteString("\n")
	}

	if len(r.Active) > 0 {
		sb.WriteString("=== ACTIVE CAMPAIGNS (reminder) ===\n")
		for _, c := range r.Active {
			done := len(c.Checks)
			remaining := c.WindowLength - done
			if remaining < 0 {
				remaining = 0
			}
			sb.WriteString(fmt.Sprintf("- %s | start=%d -> target=%d | checks %d/%d | remaining=%d\n",
				c.ID, c.StartConcurso, c.TargetStart, done, c.WindowLength, remaining))
			if done > 0 {
				last := c.Checks[done-1]
				sb.WriteString(fmt.Sprintf("  last: concurso %d | best_hits=%d | best_game=%s\n",
					last.Concurso, last.BestHits, last.BestGame))
			}
			if c.Selection != nil {
				sb.WriteString("  Games:\n")
				for _, label := range c.Selection.GameLabels() {
					sb.WriteString(fmt.Sprintf("    %s: %s\n", label, joinInts(c.Selection.Games[label])))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// winThreshold picks the threshold to headline the won section with. Won
// campaigns carry their own threshold; they all share it in practice.
func winThreshold(r *RunReport) int {
	if len(r.Won) > 0 {
		return r.Won[0].WinThreshold
	}
	return 0
}

func joinInts(xs []int) string {
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, x := range sorted {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, " ")
}
