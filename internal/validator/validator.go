package validator

import (
	"context"

	"svw.info/suko/internal/domain"
)

// FastValidator reports duplicate-value conflicts for front-end feedback.
// The solving algorithms never consult it; placement legality is enforced
// by the grid itself.
type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

func (v *FastValidator) Validate(ctx context.Context, g *domain.Grid) (bool, []domain.Pos, error) {
	mask := g.ConflictMask()
	conf := make([]domain.Pos, 0, 8)
	for i, bad := range mask {
		if bad {
			conf = append(conf, domain.At(i))
		}
	}
	return len(conf) == 0, conf, nil
}
