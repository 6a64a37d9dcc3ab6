// Package reporting renders run results as a daily text digest, a markdown
// report and CSV exports. Renderers are pure string builders over an
// assembled RunReport; they never touch storage.
package reporting

import (
	"lotofacil-lab/internal/campaign"
	"lotofacil-lab/internal/domain"
)

// RunReport gathers everything one run produced.
type RunReport struct {
	RunID   string
	RunDate string // ISO date the run is reported for

	Latest   *domain.Draw
	Decision domain.GateDecision
	History  []*domain.SuccessRecord

	Opened  *domain.Campaign
	Won     []*domain.Campaign
	Expired []*domain.Campaign
	Checks  []campaign.CheckUpdate
	Active  []*domain.Campaign
}
