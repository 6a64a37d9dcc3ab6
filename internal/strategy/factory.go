package strategy

import (
	"errors"

	"lotofacil-lab/internal/domain"
)

// Factory errors.
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrUnknownPattern      = errors.New("unknown exclusion pattern")
	ErrUnknownRankMode     = errors.New("unknown rank mode")
)

// FromConfig creates a Strategy from domain.StrategyConfig.
// Missing pattern/rank fields fall back to the original defaults
// (resultado pattern, mixed ranking).
func FromConfig(cfg domain.StrategyConfig) (Strategy, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = domain.PatternResultado
	}
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	rankMode := cfg.RankMode
	if rankMode == "" {
		rankMode = domain.RankModeMixed
	}
	if err := validateRankMode(rankMode); err != nil {
		return nil, err
	}

	switch cfg.StrategyType {
	case domain.StrategyTypePool20:
		return NewPool20Strategy(pattern, rankMode, cfg.LookbackWindow), nil
	case domain.StrategyTypeAposta16:
		return NewAposta16Strategy(pattern, rankMode, cfg.LookbackWindow), nil
	case domain.StrategyTypeClosure:
		fixDrawn := cfg.FixDrawnMode
		if fixDrawn == "" {
			fixDrawn = FixModeRandom
		}
		fixAbsent := cfg.FixAbsentMode
		if fixAbsent == "" {
			fixAbsent = FixModeRandom
		}
		return NewClosureStrategy(fixDrawn, fixAbsent, cfg.LookbackWindow), nil
	default:
		return nil, ErrUnknownStrategyType
	}
}

func validatePattern(pattern string) error {
	switch pattern {
	case domain.PatternResultado, domain.PatternMoldura, domain.PatternMetade, domain.PatternParidade:
		return nil
	}
	return ErrUnknownPattern
}

func validateRankMode(mode string) error {
	switch mode {
	case domain.RankModeFreq, domain.RankModeDelay, domain.RankModeMixed:
		return nil
	}
	return ErrUnknownRankMode
}
