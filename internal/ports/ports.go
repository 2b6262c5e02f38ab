package ports

import (
	"context"
	"time"

	"svw.info/suko/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Steps    int
	Duration time.Duration
}

// SolveOptions parameterizes a top-level solve.
type SolveOptions struct {
	Mode domain.SolveMode
	// MaxSteps caps the trace length; 0 means unbounded. When the cap is
	// hit the solver returns its partial board without error.
	MaxSteps int
}

// Solver runs the strategy battery and/or the backtracking search and can
// count solutions for uniqueness checks.
type Solver interface {
	Solve(ctx context.Context, g *domain.Grid, opts SolveOptions) (*domain.Grid, []domain.Step, Stats, error)
	// CountSolutions counts up to limit solutions and stops there; the
	// generator only ever needs to distinguish 0, 1, and "2 or more".
	CountSolutions(ctx context.Context, g *domain.Grid, limit int) (int, Stats, error)
}

// Generator creates new puzzles, either at a labeled difficulty or at an
// explicit clue target. An unreachable target is not an error; callers
// check Puzzle.Clues when it matters.
type Generator interface {
	Generate(ctx context.Context, seed int64, difficulty domain.Difficulty) (*domain.Puzzle, Stats, error)
	GenerateWithClues(ctx context.Context, seed int64, clues int) (*domain.Puzzle, Stats, error)
}

// Validator performs fast constraint checks (row/col/box).
type Validator interface {
	Validate(ctx context.Context, g *domain.Grid) (ok bool, conflicts []domain.Pos, err error)
}

// Hinter returns the next logical step up to a max strategy tier.
type Hinter interface {
	Hint(ctx context.Context, g *domain.Grid, max domain.StrategyTier) (domain.Hint, bool, error)
}

// Storage persists and retrieves puzzles as JSON.
type Storage interface {
	Save(ctx context.Context, p *domain.Puzzle) error
	Load(ctx context.Context, id string) (*domain.Puzzle, error)
	List(ctx context.Context) ([]domain.PuzzleMeta, error)
}

// Highscores persists the front ends' result list. The solving core
// neither reads nor writes it.
type Highscores interface {
	Load(ctx context.Context) ([]domain.HighscoreEntry, error)
	Append(ctx context.Context, e domain.HighscoreEntry) error
}
