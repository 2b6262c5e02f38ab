// Package generator builds puzzles in two phases: a randomized MRV
// backtracker fills a complete grid, then clues are carved out one by one
// as long as the remaining board still has exactly one solution.
package generator

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/ports"
)

// UniqueGenerator creates puzzles with a unique solution using a provided
// Solver for the bounded solution counting.
type UniqueGenerator struct {
	Solver ports.Solver
}

// NewUniqueGenerator wires a generator that uses the given solver for
// uniqueness checks.
func NewUniqueGenerator(s ports.Solver) *UniqueGenerator {
	return &UniqueGenerator{Solver: s}
}

func targetGivens(d domain.Difficulty) int {
	switch d {
	case domain.Easy:
		return 40
	case domain.Medium:
		return 34
	case domain.Hard:
		return 28
	default:
		return 24 // Expert
	}
}

// Generate creates a puzzle at the clue target for the given difficulty.
func (g *UniqueGenerator) Generate(ctx context.Context, seed int64, diff domain.Difficulty) (*domain.Puzzle, ports.Stats, error) {
	p, st, err := g.GenerateWithClues(ctx, seed, targetGivens(diff))
	if p != nil {
		p.Difficulty = diff
	}
	return p, st, err
}

// GenerateWithClues builds a full random solution for the seed, then
// clears shuffled positions while the puzzle stays uniquely solvable.
// If the target cannot be reached the best achievable board is returned
// without error; check Puzzle.Clues when the exact count matters.
func (g *UniqueGenerator) GenerateWithClues(ctx context.Context, seed int64, clues int) (*domain.Puzzle, ports.Stats, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))

	full, err := fillRandom(ctx, rng)
	if err != nil {
		return nil, ports.Stats{Duration: time.Since(start)}, err
	}

	work := full
	positions := rng.Perm(81)
	nodes := 0
	remaining := 81
	for _, pos := range positions {
		if remaining <= clues {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
		}
		p := domain.At(pos)
		if work.Value(p) == 0 {
			continue
		}
		carved, err := work.Cleared(p)
		if err != nil {
			continue
		}
		n, st, err := g.Solver.CountSolutions(ctx, &carved, 2)
		nodes += st.Nodes
		if err != nil {
			return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
		}
		if n == 1 {
			work = carved
			remaining--
		}
	}

	work.MarkGivens()
	puz := &domain.Puzzle{
		Seed:      seed,
		Clues:     work.CountClues(),
		Grid:      work,
		CreatedAt: time.Now().UnixNano(),
	}
	return puz, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// fillRandom solves the empty grid into a full random solution: same MRV
// control structure as the search engine, but candidate digits are tried
// in shuffled order.
func fillRandom(ctx context.Context, rng *rand.Rand) (domain.Grid, error) {
	var dfs func(g domain.Grid) (domain.Grid, bool, error)
	dfs = func(g domain.Grid) (domain.Grid, bool, error) {
		if err := ctx.Err(); err != nil {
			return g, false, err
		}
		best, bestCount := -1, 10
		for i := 0; i < 81; i++ {
			p := domain.At(i)
			if g.Value(p) != 0 {
				continue
			}
			n := domain.CandidateCount(g.Candidates(p))
			if n == 0 {
				return g, false, nil
			}
			if n < bestCount {
				best, bestCount = i, n
				if n == 1 {
					break
				}
			}
		}
		if best < 0 {
			return g, true, nil
		}
		p := domain.At(best)
		digits := domain.Digits(g.Candidates(p))
		rng.Shuffle(len(digits), func(i, j int) { digits[i], digits[j] = digits[j], digits[i] })
		for _, d := range digits {
			child := g
			if err := child.Place(p, d); err != nil {
				if errors.Is(err, domain.ErrContradiction) {
					continue
				}
				return g, false, err
			}
			out, ok, err := dfs(child)
			if err != nil || ok {
				return out, ok, err
			}
		}
		return g, false, nil
	}

	out, ok, err := dfs(domain.NewGrid())
	if err != nil {
		return domain.Grid{}, err
	}
	if !ok {
		// The empty grid always fills; reaching this means a broken rng
		// or invariant.
		return domain.Grid{}, domain.ErrContradiction
	}
	return out, nil
}
