// Package solver contains the top-level solve entry point and the
// backtracking search engine. The search never mutates a parent board:
// each guess goes into a plain copy of the grid, so abandoning a failed
// branch is just dropping the copy.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/ports"
	"svw.info/suko/internal/strategy"
)

// Engine implements ports.Solver.
type Engine struct{}

func New() *Engine { return &Engine{} }

// tracer collects the append-only step sequence and enforces the
// optional step budget.
type tracer struct {
	steps   []domain.Step
	max     int
	stopped bool
}

// record appends a step and reports whether the caller may continue.
func (t *tracer) record(kind domain.StepKind, cells []domain.Pos, d uint8, reason string, board domain.Grid) bool {
	if t.stopped {
		return false
	}
	t.steps = append(t.steps, domain.Step{
		Index:  len(t.steps) + 1,
		Kind:   kind,
		Cells:  cells,
		Digit:  d,
		Reason: reason,
		Board:  board,
	})
	if t.max > 0 && len(t.steps) >= t.max {
		t.stopped = true
		return false
	}
	return true
}

// Solve runs the configured mode against a copy of g. The input grid is
// never mutated. On success the returned grid is fully solved; a
// logical-only stall or an exhausted step budget returns the partial
// board with a nil error, and callers check Solved(). A puzzle proven
// unsolvable surfaces as ErrContradiction.
func (e *Engine) Solve(ctx context.Context, g *domain.Grid, opts ports.SolveOptions) (*domain.Grid, []domain.Step, ports.Stats, error) {
	start := time.Now()
	stats := ports.Stats{}
	done := func() ports.Stats {
		stats.Duration = time.Since(start)
		return stats
	}

	work := *g
	if err := work.RecomputeCandidates(); err != nil {
		return nil, nil, done(), err
	}

	tr := &tracer{max: opts.MaxSteps}
	if opts.Mode != domain.SearchOnly {
		err := strategy.Run(&work, func(res strategy.Result) bool {
			return tr.record(res.Kind, res.Cells, res.Digit, res.Reason, work)
		})
		if err != nil {
			stats.Steps = len(tr.steps)
			return nil, tr.steps, done(), err
		}
	}

	if opts.Mode != domain.LogicalOnly && !work.Solved() && !tr.stopped {
		out, solved, err := e.search(ctx, work, tr, &stats)
		if err != nil {
			stats.Steps = len(tr.steps)
			return nil, tr.steps, done(), err
		}
		if solved {
			work = out
		} else if !tr.stopped {
			stats.Steps = len(tr.steps)
			return nil, tr.steps, done(), fmt.Errorf("%w: puzzle has no solution", domain.ErrContradiction)
		}
	}

	stats.Steps = len(tr.steps)
	return &work, tr.steps, done(), nil
}

// search picks the most constrained empty cell and tries its candidates
// in ascending order, recursing on a copy per guess. A cell with zero
// candidates fails the branch immediately, without finishing the scan.
func (e *Engine) search(ctx context.Context, g domain.Grid, tr *tracer, stats *ports.Stats) (domain.Grid, bool, error) {
	if err := ctx.Err(); err != nil {
		return g, false, err
	}
	if g.Solved() {
		return g, true, nil
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
		// No empty cell despite Solved() being false; cannot happen
		// while the invariants hold.
		return g, false, nil
	}

	p := domain.At(best)
	for _, d := range domain.Digits(g.Candidates(p)) {
		stats.Nodes++
		child := g
		if err := child.Place(p, d); err != nil {
			if errors.Is(err, domain.ErrContradiction) {
				continue // pruned by propagation, try the next digit
			}
			return g, false, err
		}
		if !tr.record(domain.StepGuess, []domain.Pos{p}, d,
			fmt.Sprintf("guess %d at r%dc%d (%d candidates)", d, p.Row+1, p.Col+1, bestCount), child) {
			return g, false, nil
		}
		out, solved, err := e.search(ctx, child, tr, stats)
		if err != nil {
			return g, false, err
		}
		if solved {
			return out, true, nil
		}
		if tr.stopped {
			return g, false, nil
		}
		if !tr.record(domain.StepBacktrack, []domain.Pos{p}, d,
			fmt.Sprintf("backtrack: %d at r%dc%d leads nowhere", d, p.Row+1, p.Col+1), g) {
			return g, false, nil
		}
	}
	return g, false, nil
}

// CountSolutions counts solutions of g up to limit and stops counting as
// soon as the limit is reached. A board that is contradictory as given
// has zero solutions; that is a result, not an error.
func (e *Engine) CountSolutions(ctx context.Context, g *domain.Grid, limit int) (int, ports.Stats, error) {
	start := time.Now()
	stats := ports.Stats{}
	work := *g
	if err := work.RecomputeCandidates(); err != nil {
		stats.Duration = time.Since(start)
		return 0, stats, nil
	}

	count := 0
	var rec func(g domain.Grid) error
	rec = func(g domain.Grid) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count >= limit {
			return nil
		}
		best, bestCount := -1, 10
		for i := 0; i < 81; i++ {
			p := domain.At(i)
			if g.Value(p) != 0 {
				continue
			}
			n := domain.CandidateCount(g.Candidates(p))
			if n == 0 {
				return nil
			}
			if n < bestCount {
				best, bestCount = i, n
				if n == 1 {
					break
				}
			}
		}
		if best < 0 {
			count++
			return nil
		}
		p := domain.At(best)
		for _, d := range domain.Digits(g.Candidates(p)) {
			stats.Nodes++
			child := g
			if err := child.Place(p, d); err != nil {
				continue
			}
			if err := rec(child); err != nil {
				return err
			}
			if count >= limit {
				return nil
			}
		}
		return nil
	}
	err := rec(work)
	stats.Duration = time.Since(start)
	return count, stats, err
}
