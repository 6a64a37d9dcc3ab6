package domain

// StrategyConfig holds strategy selection and parameters. The concrete
// strategy is chosen by configuration, never by runtime type inspection.
type StrategyConfig struct {
	StrategyType string `json:"strategy_type" yaml:"type"`

	// POOL20 / APOSTA16 parameters
	Pattern  string `json:"pattern,omitempty" yaml:"pattern"`
	RankMode string `json:"rank_mode,omitempty" yaml:"rank_mode"`

	// CLOSURE parameters
	FixDrawnMode  string `json:"fix_drawn_mode,omitempty" yaml:"fix_drawn_mode"`
	FixAbsentMode string `json:"fix_absent_mode,omitempty" yaml:"fix_absent_mode"`

	// Common: ranking lookback in draws (0 = full history)
	LookbackWindow int `json:"lookback_window,omitempty" yaml:"lookback_window"`
}

// Strategy type constants.
const (
	StrategyTypePool20   = "POOL20"
	StrategyTypeAposta16 = "APOSTA16"
	StrategyTypeClosure  = "CLOSURE"
)

// Exclusion pattern constants for POOL20/APOSTA16.
const (
	PatternResultado = "resultado" // 3 from drawn + 2 from absent of the base draw
	PatternMoldura   = "moldura"   // 3 from the frame + 2 from the core
	PatternMetade    = "metade"    // 3 from 1..13 + 2 from 14..25
	PatternParidade  = "paridade"  // 3 odd + 2 even
)

// Ranking mode constants.
const (
	RankModeFreq  = "freq"
	RankModeDelay = "delay"
	RankModeMixed = "mixed" // freq + 0.25*delay
)
