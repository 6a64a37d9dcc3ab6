package reporting

import (
	"fmt"
	"strings"

	"lotofacil-lab/internal/domain"
)

// RenderSuccessHistoryCSV renders the walk-forward success history as CSV.
func RenderSuccessHistoryCSV(records []*domain.SuccessRecord) string {
	var sb strings.Builder

	sb.WriteString("concurso,success,best_hits,profit\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%d,%t,%d,%.2f\n",
			rec.Concurso,
			rec.Success,
			rec.BestHits,
			rec.Profit,
		))
	}

	return sb.String()
}
