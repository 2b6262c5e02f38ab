// Package strategy implements the human-style deduction rules and the
// fixpoint loop that drives them. Each rule is a pure function of grid
// state: it either applies the first match it finds (row-major for
// single-cell rules, ascending unit/digit index otherwise) and reports
// what it did, or leaves the grid untouched. The loop restarts from the
// highest-priority rule after every application, so step sequences are
// deterministic for identical input.
package strategy

import (
	"fmt"

	"svw.info/suko/internal/domain"
)

// Result describes one applied rule for trace consumers.
type Result struct {
	Strategy string
	Tier     domain.StrategyTier
	Kind     domain.StepKind // StepPlace or StepEliminate
	Cells    []domain.Pos
	Digit    uint8
	Reason   string
}

// Func applies a rule to the grid. ok is false when the rule found
// nothing to do; a non-nil error means the grid is contradictory and the
// caller must discard it.
type Func func(*domain.Grid) (Result, bool, error)

// Entry names a rule and the tier it belongs to, for tier-capped hinting.
type Entry struct {
	Name  string
	Tier  domain.StrategyTier
	Apply Func
}

// Battery is the fixed priority order. Cheaper, more fundamental rules
// come first; the loop in Run restarts here after every hit.
var Battery = []Entry{
	{"naked single", domain.StrategySingles, NakedSingle},
	{"hidden single", domain.StrategySingles, HiddenSingle},
	{"naked pair", domain.StrategyPairs, NakedPair},
	{"pointing pair/triple", domain.StrategyAdvanced, PointingPairTriple},
	{"box-line reduction", domain.StrategyAdvanced, BoxLineReduction},
	{"x-wing", domain.StrategyXWing, XWing},
}

// Run drives the battery to fixpoint. report is called after each applied
// rule and may return false to stop early (step budgets); a nil report
// just runs silently. Rules are idempotent, so the fixpoint is simply the
// first full cycle in which nothing applies.
func Run(g *domain.Grid, report func(Result) bool) error {
	for {
		applied := false
		for _, e := range Battery {
			res, ok, err := e.Apply(g)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			applied = true
			if report != nil && !report(res) {
				return nil
			}
			break // restart from the top of the battery
		}
		if !applied {
			return nil
		}
	}
}

// unit index tables, computed once. units[0..8] are rows, [9..17] columns,
// [18..26] boxes, each in ascending order.
var units [27][9]int

func init() {
	for u := 0; u < 9; u++ {
		br, bc := (u/3)*3, (u%3)*3
		k := 0
		for j := 0; j < 9; j++ {
			units[u][j] = u*9 + j
			units[9+u][j] = j*9 + u
		}
		for rr := br; rr < br+3; rr++ {
			for cc := bc; cc < bc+3; cc++ {
				units[18+u][k] = rr*9 + cc
				k++
			}
		}
	}
}

func unitName(u int) string {
	switch {
	case u < 9:
		return fmt.Sprintf("row %d", u+1)
	case u < 18:
		return fmt.Sprintf("column %d", u-9+1)
	default:
		return fmt.Sprintf("box %d", u-18+1)
	}
}

// NakedSingle commits the first empty cell (row-major) whose candidate
// set has exactly one digit.
func NakedSingle(g *domain.Grid) (Result, bool, error) {
	for i := 0; i < 81; i++ {
		p := domain.At(i)
		if g.Value(p) != 0 {
			continue
		}
		m := g.Candidates(p)
		if domain.CandidateCount(m) != 1 {
			continue
		}
		d := domain.Digits(m)[0]
		if err := g.Place(p, d); err != nil {
			return Result{}, false, err
		}
		return Result{
			Strategy: "naked single",
			Tier:     domain.StrategySingles,
			Kind:     domain.StepPlace,
			Cells:    []domain.Pos{p},
			Digit:    d,
			Reason:   fmt.Sprintf("naked single: only %d fits at r%dc%d", d, p.Row+1, p.Col+1),
		}, true, nil
	}
	return Result{}, false, nil
}

// HiddenSingle commits a digit that has exactly one remaining candidate
// position within some unit, scanning rows, then columns, then boxes.
func HiddenSingle(g *domain.Grid) (Result, bool, error) {
	for u := 0; u < 27; u++ {
		for d := uint8(1); d <= 9; d++ {
			at := -1
			n := 0
			for _, i := range units[u] {
				p := domain.At(i)
				if g.Value(p) == 0 && g.Candidates(p)&(1<<d) != 0 {
					at = i
					n++
				}
			}
			if n != 1 {
				continue
			}
			p := domain.At(at)
			if err := g.Place(p, d); err != nil {
				return Result{}, false, err
			}
			return Result{
				Strategy: "hidden single",
				Tier:     domain.StrategySingles,
				Kind:     domain.StepPlace,
				Cells:    []domain.Pos{p},
				Digit:    d,
				Reason:   fmt.Sprintf("hidden single: %d can only go at r%dc%d in %s", d, p.Row+1, p.Col+1, unitName(u)),
			}, true, nil
		}
	}
	return Result{}, false, nil
}

// NakedPair finds two cells in a unit sharing an identical two-digit
// candidate set and strips those digits from the rest of the unit. Only
// reports when at least one mask actually changed, so re-running on the
// same state is a no-op.
func NakedPair(g *domain.Grid) (Result, bool, error) {
	for u := 0; u < 27; u++ {
		cells := units[u]
		for a := 0; a < 9; a++ {
			pa := domain.At(cells[a])
			if g.Value(pa) != 0 {
				continue
			}
			m := g.Candidates(pa)
			if domain.CandidateCount(m) != 2 {
				continue
			}
			for b := a + 1; b < 9; b++ {
				pb := domain.At(cells[b])
				if g.Value(pb) != 0 || g.Candidates(pb) != m {
					continue
				}
				changed := false
				var touched []domain.Pos
				for k := 0; k < 9; k++ {
					if k == a || k == b {
						continue
					}
					pk := domain.At(cells[k])
					for _, d := range domain.Digits(m) {
						ch, err := g.RemoveCandidate(pk, d)
						if err != nil {
							return Result{}, false, err
						}
						if ch {
							changed = true
							touched = appendPos(touched, pk)
						}
					}
				}
				if !changed {
					continue
				}
				ds := domain.Digits(m)
				return Result{
					Strategy: "naked pair",
					Tier:     domain.StrategyPairs,
					Kind:     domain.StepEliminate,
					Cells:    touched,
					Reason: fmt.Sprintf("naked pair %d/%d at r%dc%d and r%dc%d removes both from the rest of %s",
						ds[0], ds[1], pa.Row+1, pa.Col+1, pb.Row+1, pb.Col+1, unitName(u)),
				}, true, nil
			}
		}
	}
	return Result{}, false, nil
}

// PointingPairTriple: within a box, if all candidates for a digit sit in
// one row (or column), that digit cannot appear elsewhere in the same row
// (or column) outside the box.
func PointingPairTriple(g *domain.Grid) (Result, bool, error) {
	for b := 0; b < 9; b++ {
		br, bc := (b/3)*3, (b%3)*3
		for d := uint8(1); d <= 9; d++ {
			var rows, cols [3]int
			for dr := 0; dr < 3; dr++ {
				for dc := 0; dc < 3; dc++ {
					p := domain.Pos{Row: br + dr, Col: bc + dc}
					if g.Value(p) == 0 && g.Candidates(p)&(1<<d) != 0 {
						rows[dr]++
						cols[dc]++
					}
				}
			}
			if dr, ok := soleNonzero(rows); ok {
				r := br + dr
				changed, touched, err := removeFromLine(g, d, lineRow, r, bc, bc+2)
				if err != nil {
					return Result{}, false, err
				}
				if changed {
					return Result{
						Strategy: "pointing pair/triple",
						Tier:     domain.StrategyAdvanced,
						Kind:     domain.StepEliminate,
						Cells:    touched,
						Digit:    d,
						Reason:   fmt.Sprintf("in box %d all %ds sit in row %d; removed %d from the rest of the row", b+1, d, r+1, d),
					}, true, nil
				}
			}
			if dc, ok := soleNonzero(cols); ok {
				c := bc + dc
				changed, touched, err := removeFromLine(g, d, lineCol, c, br, br+2)
				if err != nil {
					return Result{}, false, err
				}
				if changed {
					return Result{
						Strategy: "pointing pair/triple",
						Tier:     domain.StrategyAdvanced,
						Kind:     domain.StepEliminate,
						Cells:    touched,
						Digit:    d,
						Reason:   fmt.Sprintf("in box %d all %ds sit in column %d; removed %d from the rest of the column", b+1, d, c+1, d),
					}, true, nil
				}
			}
		}
	}
	return Result{}, false, nil
}

// BoxLineReduction: within a row or column, if all candidates for a digit
// fall in one box, remove the digit from that box outside the line.
func BoxLineReduction(g *domain.Grid) (Result, bool, error) {
	for r := 0; r < 9; r++ {
		for d := uint8(1); d <= 9; d++ {
			var boxes [3]int
			for c := 0; c < 9; c++ {
				p := domain.Pos{Row: r, Col: c}
				if g.Value(p) == 0 && g.Candidates(p)&(1<<d) != 0 {
					boxes[c/3]++
				}
			}
			bi, ok := soleNonzero(boxes)
			if !ok {
				continue
			}
			changed, touched, err := removeFromBox(g, d, (r/3)*3, bi*3, func(p domain.Pos) bool { return p.Row != r })
			if err != nil {
				return Result{}, false, err
			}
			if changed {
				return Result{
					Strategy: "box-line reduction",
					Tier:     domain.StrategyAdvanced,
					Kind:     domain.StepEliminate,
					Cells:    touched,
					Digit:    d,
					Reason:   fmt.Sprintf("all %ds of row %d sit in one box; removed %d from the rest of the box", d, r+1, d),
				}, true, nil
			}
		}
	}
	for c := 0; c < 9; c++ {
		for d := uint8(1); d <= 9; d++ {
			var boxes [3]int
			for r := 0; r < 9; r++ {
				p := domain.Pos{Row: r, Col: c}
				if g.Value(p) == 0 && g.Candidates(p)&(1<<d) != 0 {
					boxes[r/3]++
				}
			}
			bi, ok := soleNonzero(boxes)
			if !ok {
				continue
			}
			changed, touched, err := removeFromBox(g, d, bi*3, (c/3)*3, func(p domain.Pos) bool { return p.Col != c })
			if err != nil {
				return Result{}, false, err
			}
			if changed {
				return Result{
					Strategy: "box-line reduction",
					Tier:     domain.StrategyAdvanced,
					Kind:     domain.StepEliminate,
					Cells:    touched,
					Digit:    d,
					Reason:   fmt.Sprintf("all %ds of column %d sit in one box; removed %d from the rest of the box", d, c+1, d),
				}, true, nil
			}
		}
	}
	return Result{}, false, nil
}

// XWing: two rows whose candidates for a digit occupy the same two
// columns pin that digit to those four cells; it is removed from both
// columns in every other row. The column-based case is symmetric.
func XWing(g *domain.Grid) (Result, bool, error) {
	for d := uint8(1); d <= 9; d++ {
		// rows with exactly two candidate columns
		var lines []xwLine
		for r := 0; r < 9; r++ {
			cols := candidatePositions(g, d, lineRow, r)
			if len(cols) == 2 {
				lines = append(lines, xwLine{r, cols[0], cols[1]})
			}
		}
		if res, ok, err := applyXWing(g, d, lines, lineRow); ok || err != nil {
			return res, ok, err
		}
		lines = lines[:0]
		for c := 0; c < 9; c++ {
			rows := candidatePositions(g, d, lineCol, c)
			if len(rows) == 2 {
				lines = append(lines, xwLine{c, rows[0], rows[1]})
			}
		}
		if res, ok, err := applyXWing(g, d, lines, lineCol); ok || err != nil {
			return res, ok, err
		}
	}
	return Result{}, false, nil
}

type lineKind int

const (
	lineRow lineKind = iota
	lineCol
)

func cellOn(kind lineKind, line, k int) domain.Pos {
	if kind == lineRow {
		return domain.Pos{Row: line, Col: k}
	}
	return domain.Pos{Row: k, Col: line}
}

type xwLine struct{ line, p1, p2 int }

func candidatePositions(g *domain.Grid, d uint8, kind lineKind, line int) []int {
	var out []int
	for k := 0; k < 9; k++ {
		p := cellOn(kind, line, k)
		if g.Value(p) == 0 && g.Candidates(p)&(1<<d) != 0 {
			out = append(out, k)
		}
	}
	return out
}

func applyXWing(g *domain.Grid, d uint8, lines []xwLine, kind lineKind) (Result, bool, error) {
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			a, b := lines[i], lines[j]
			if a.p1 != b.p1 || a.p2 != b.p2 {
				continue
			}
			changed := false
			var touched []domain.Pos
			for _, cross := range []int{a.p1, a.p2} {
				for k := 0; k < 9; k++ {
					if k == a.line || k == b.line {
						continue
					}
					// cross is a column index for row-based wings and
					// a row index for column-based ones.
					var p domain.Pos
					if kind == lineRow {
						p = domain.Pos{Row: k, Col: cross}
					} else {
						p = domain.Pos{Row: cross, Col: k}
					}
					ch, err := g.RemoveCandidate(p, d)
					if err != nil {
						return Result{}, false, err
					}
					if ch {
						changed = true
						touched = appendPos(touched, p)
					}
				}
			}
			if !changed {
				continue
			}
			axis := "rows"
			if kind == lineCol {
				axis = "columns"
			}
			return Result{
				Strategy: "x-wing",
				Tier:     domain.StrategyXWing,
				Kind:     domain.StepEliminate,
				Cells:    touched,
				Digit:    d,
				Reason: fmt.Sprintf("x-wing on %s %d and %d pins %d; removed it elsewhere on the crossing lines",
					axis, a.line+1, b.line+1, d),
			}, true, nil
		}
	}
	return Result{}, false, nil
}

func soleNonzero(counts [3]int) (int, bool) {
	at, n := -1, 0
	for i, c := range counts {
		if c > 0 {
			at = i
			n++
		}
	}
	return at, n == 1
}

// removeFromLine strips d from the given row/column outside the span
// [skipFrom, skipTo] (the box's slice of the line).
func removeFromLine(g *domain.Grid, d uint8, kind lineKind, line, skipFrom, skipTo int) (bool, []domain.Pos, error) {
	changed := false
	var touched []domain.Pos
	for k := 0; k < 9; k++ {
		if k >= skipFrom && k <= skipTo {
			continue
		}
		p := cellOn(kind, line, k)
		ch, err := g.RemoveCandidate(p, d)
		if err != nil {
			return false, nil, err
		}
		if ch {
			changed = true
			touched = appendPos(touched, p)
		}
	}
	return changed, touched, nil
}

func removeFromBox(g *domain.Grid, d uint8, br, bc int, outside func(domain.Pos) bool) (bool, []domain.Pos, error) {
	changed := false
	var touched []domain.Pos
	for r := br; r < br+3; r++ {
		for c := bc; c < bc+3; c++ {
			p := domain.Pos{Row: r, Col: c}
			if !outside(p) {
				continue
			}
			ch, err := g.RemoveCandidate(p, d)
			if err != nil {
				return false, nil, err
			}
			if ch {
				changed = true
				touched = appendPos(touched, p)
			}
		}
	}
	return changed, touched, nil
}

func appendPos(list []domain.Pos, p domain.Pos) []domain.Pos {
	for _, q := range list {
		if q == p {
			return list
		}
	}
	return append(list, p)
}
