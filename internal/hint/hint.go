package hint

import (
	"context"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/strategy"
)

// Strategies suggests the next logical step by running the deduction
// battery, capped at a maximum tier, against a scratch copy of the board.
type Strategies struct{}

func New() *Strategies { return &Strategies{} }

// Hint returns the first applicable rule at or below the max tier. The
// caller's grid is never mutated; the rule runs on a copy.
func (h *Strategies) Hint(ctx context.Context, g *domain.Grid, max domain.StrategyTier) (domain.Hint, bool, error) {
	scratch := *g
	if err := scratch.RecomputeCandidates(); err != nil {
		return domain.Hint{}, false, err
	}
	for _, e := range strategy.Battery {
		if e.Tier > max {
			continue
		}
		res, ok, err := e.Apply(&scratch)
		if err != nil {
			return domain.Hint{}, false, err
		}
		if ok {
			return domain.Hint{
				Message:  res.Reason,
				Cells:    res.Cells,
				Digit:    res.Digit,
				Strategy: res.Tier,
			}, true, nil
		}
	}
	return domain.Hint{}, false, nil
}
