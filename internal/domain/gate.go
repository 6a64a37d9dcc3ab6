package domain

// SuccessMode selects how a walk-forward trial is labeled a success.
type SuccessMode string

// Success mode constants. The two modes do not subsume each other:
// a profitable window may stay under the hit threshold and vice versa.
const (
	SuccessModeProfit SuccessMode = "profit" // payout - cost > 0 over the window
	SuccessModeHits   SuccessMode = "hits"   // max hits over the window >= threshold
)

// SuccessRecord is one walk-forward evaluation step. Concurso is the base
// draw the trial is anchored to; only history strictly before the base's
// successor was visible when the selection was generated.
type SuccessRecord struct {
	Concurso int     `json:"concurso"`
	Success  bool    `json:"success"`
	BestHits int     `json:"best_hits"`
	Profit   float64 `json:"profit"`
}

// GateDecision is the admission decision for "act today". The band models
// the empirically typical spacing between successes; a gap inside the band
// means "about due". Every failure path is a pass=false decision with a
// reason, never an error.
type GateDecision struct {
	PercentileLow  float64 `json:"percentile_low"`
	PercentileHigh float64 `json:"percentile_high"`
	BandLow        float64 `json:"band_low"`
	BandHigh       float64 `json:"band_high"`
	CurrentGap     int     `json:"current_gap"`
	LastEligible   int     `json:"last_eligible_concurso"`
	LastSuccess    int     `json:"last_success_concurso"`
	Wins           int     `json:"wins"`
	Trials         int     `json:"trials"`
	WinRate        float64 `json:"win_rate"`
	Pass           bool    `json:"pass"`
	Reason         string  `json:"reason"`
}
