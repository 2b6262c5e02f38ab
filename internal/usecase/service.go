package usecase

import (
	"context"
	"errors"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/ports"
)

// Service is the facade the adapters talk to; every dependency is an
// interface so front ends can swap implementations.
type Service struct {
	Solver     ports.Solver
	Generator  ports.Generator
	Validator  ports.Validator
	Hinter     ports.Hinter
	Storage    ports.Storage
	Highscores ports.Highscores
}

func NewService(s ports.Solver, g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage, hs ports.Highscores) *Service {
	return &Service{Solver: s, Generator: g, Validator: v, Hinter: h, Storage: st, Highscores: hs}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) Solve(ctx context.Context, g *domain.Grid, opts ports.SolveOptions) (*domain.Grid, []domain.Step, ports.Stats, error) {
	if u.Solver == nil {
		return nil, nil, ports.Stats{}, errNotConfigured
	}
	return u.Solver.Solve(ctx, g, opts)
}

func (u *Service) CountSolutions(ctx context.Context, g *domain.Grid, limit int) (int, ports.Stats, error) {
	if u.Solver == nil {
		return 0, ports.Stats{}, errNotConfigured
	}
	return u.Solver.CountSolutions(ctx, g, limit)
}

func (u *Service) Generate(ctx context.Context, seed int64, d domain.Difficulty) (*domain.Puzzle, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Generator.Generate(ctx, seed, d)
}

func (u *Service) GenerateWithClues(ctx context.Context, seed int64, clues int) (*domain.Puzzle, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Generator.GenerateWithClues(ctx, seed, clues)
}

func (u *Service) Validate(ctx context.Context, g *domain.Grid) (bool, []domain.Pos, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, g)
}

func (u *Service) Hint(ctx context.Context, g *domain.Grid, max domain.StrategyTier) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	return u.Hinter.Hint(ctx, g, max)
}

// Persistence
func (u *Service) Save(ctx context.Context, p *domain.Puzzle) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Save(ctx, p)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Puzzle, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

func (u *Service) ListHighscores(ctx context.Context) ([]domain.HighscoreEntry, error) {
	if u.Highscores == nil {
		return nil, errNotConfigured
	}
	return u.Highscores.Load(ctx)
}

func (u *Service) AddHighscore(ctx context.Context, e domain.HighscoreEntry) error {
	if u.Highscores == nil {
		return errNotConfigured
	}
	return u.Highscores.Append(ctx, e)
}
