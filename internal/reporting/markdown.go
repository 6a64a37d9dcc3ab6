package reporting

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the run report as Markdown, for the reports/
// directory and backtest summaries.
func RenderMarkdown(r *RunReport) string {
	var sb strings.Builder

	sb.WriteString("# Daily Gate Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s (%s)\n\n", r.RunID, r.RunDate))
	if r.Latest != nil {
		sb.WriteString(fmt.Sprintf("Latest concurso: %d (%s)\n\n", r.Latest.Concurso, r.Latest.Date))
	}

	sb.WriteString("## Gate Decision\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Pass | %t |\n", r.Decision.Pass))
	sb.WriteString(fmt.Sprintf("| Reason | %s |\n", r.Decision.Reason))
	sb.WriteString(fmt.Sprintf("| Percentiles | %.0f / %.0f |\n", r.Decision.PercentileLow, r.Decision.PercentileHigh))
	sb.WriteString(fmt.Sprintf("| Band | [%.1f, %.1f] |\n", r.Decision.BandLow, r.Decision.BandHigh))
	sb.WriteString(fmt.Sprintf("| Current gap | %d |\n", r.Decision.CurrentGap))
	sb.WriteString(fmt.Sprintf("| Last eligible | %d |\n", r.Decision.LastEligible))
	sb.WriteString(fmt.Sprintf("| Last success | %d |\n", r.Decision.LastSuccess))
	sb.WriteString(fmt.Sprintf("| Wins / Trials | %d / %d (%.4f) |\n", r.Decision.Wins, r.Decision.Trials, r.Decision.WinRate))
	sb.WriteString("\n")

	sb.WriteString("## Campaigns\n\n")
	if r.Opened == nil && len(r.Won) == 0 && len(r.Expired) == 0 && len(r.Active) == 0 {
		sb.WriteString("No campaign activity.\n\n")
		return sb.String()
	}

	sb.WriteString("| ID | Status | Start | Target | Checks | Outcome |\n")
	sb.WriteString("|----|--------|-------|--------|--------|--------|\n")
	writeRow := func(id, status string, start, target, checks int, outcome string) {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %s |\n",
			id, status, start, target, checks, outcome))
	}

	if r.Opened != nil {
		writeRow(r.Opened.ID, "opened", r.Opened.StartConcurso, r.Opened.TargetStart, len(r.Opened.Checks), "-")
	}
	for _, c := range r.Won {
		writeRow(c.ID, "won", c.StartConcurso, c.TargetStart, len(c.Checks),
			fmt.Sprintf("%d hits at %d", c.Outcome.Hits, c.Outcome.Concurso))
	}
	for _, c := range r.Expired {
		writeRow(c.ID, "expired", c.StartConcurso, c.TargetStart, len(c.Checks), c.ExpireReason)
	}
	for _, c := range r.Active {
		writeRow(c.ID, "active", c.StartConcurso, c.TargetStart, len(c.Checks), "-")
	}
	sb.WriteString("\n")

	return sb.String()
}
