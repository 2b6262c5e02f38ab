package domain

import (
	"encoding/json"
	"math/bits"
	"strings"
)

// Pos identifies a cell on the board, rows and columns 0..8.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index flattens a position into 0..80, row-major.
func (p Pos) Index() int { return p.Row*9 + p.Col }

// At is the inverse of Index.
func At(idx int) Pos { return Pos{Row: idx / 9, Col: idx % 9} }

// AllCandidates has bits 1..9 set; bit d means digit d is still possible.
const AllCandidates uint16 = 0x3FE

// peers[i] lists the 20 cells sharing a row, column or box with cell i.
var peers [81][20]int

func init() {
	for i := 0; i < 81; i++ {
		r, c := i/9, i%9
		br, bc := (r/3)*3, (c/3)*3
		seen := make(map[int]bool, 20)
		n := 0
		add := func(j int) {
			if j != i && !seen[j] {
				seen[j] = true
				peers[i][n] = j
				n++
			}
		}
		for k := 0; k < 9; k++ {
			add(r*9 + k)
			add(k*9 + c)
		}
		for rr := br; rr < br+3; rr++ {
			for cc := bc; cc < bc+3; cc++ {
				add(rr*9 + cc)
			}
		}
	}
}

// Grid is a 9x9 board with per-cell candidate masks. It has value
// semantics: a plain struct copy is an independent board, which is what
// the search and generator rely on for backtracking.
type Grid struct {
	values [81]uint8
	fixed  [81]bool
	cands  [81]uint16
}

// NewGrid returns an empty board with every digit open everywhere.
func NewGrid() Grid {
	var g Grid
	for i := range g.cands {
		g.cands[i] = AllCandidates
	}
	return g
}

func digitOf(ch rune) (uint8, bool) {
	switch {
	case ch >= '1' && ch <= '9':
		return uint8(ch - '0'), true
	case ch == '0' || ch == '.' || ch == '_':
		return 0, true
	}
	return 0, false
}

// Parse builds a board from exactly 81 recognized characters (digits 1-9,
// and '0'/'.'/'_' for blank). Any other character or count fails with
// ErrMalformedInput. Givens are committed through the propagation path and
// marked fixed, so a self-contradictory puzzle is rejected here.
func Parse(text string) (Grid, error) {
	runes := []rune(text)
	if len(runes) != 81 {
		return Grid{}, malformed("expected 81 characters, got %d", len(runes))
	}
	g := NewGrid()
	for i, ch := range runes {
		d, ok := digitOf(ch)
		if !ok {
			return Grid{}, malformed("invalid character %q at position %d", ch, i)
		}
		if d == 0 {
			continue
		}
		if err := g.Place(At(i), d); err != nil {
			return Grid{}, malformed("clue %d at r%dc%d: %v", d, i/9+1, i%9+1, err)
		}
		g.fixed[i] = true
	}
	return g, nil
}

// Normalize extracts the first 81 recognized symbols from text, skipping
// everything else (whitespace, separators), and parses the result. Fails
// if fewer than 81 symbols are present.
func Normalize(text string) (Grid, error) {
	s, err := collect81(text)
	if err != nil {
		return Grid{}, err
	}
	return Parse(s)
}

func collect81(text string) (string, error) {
	var sb strings.Builder
	for _, ch := range text {
		if _, ok := digitOf(ch); ok {
			sb.WriteRune(ch)
			if sb.Len() == 81 {
				break
			}
		}
	}
	if sb.Len() < 81 {
		return "", malformed("expected 81 symbols, found %d", sb.Len())
	}
	return sb.String(), nil
}

// ParseUnchecked writes the 81 values without running propagation, so
// boards with duplicate digits are representable. Only the feedback
// queries (ConflictMask, Valid) are meaningful on the result; call
// RecomputeCandidates before handing it to a solver.
func ParseUnchecked(text string) (Grid, error) {
	runes := []rune(text)
	if len(runes) != 81 {
		return Grid{}, malformed("expected 81 characters, got %d", len(runes))
	}
	g := NewGrid()
	for i, ch := range runes {
		d, ok := digitOf(ch)
		if !ok {
			return Grid{}, malformed("invalid character %q at position %d", ch, i)
		}
		g.values[i] = d
		g.fixed[i] = d != 0
		if d != 0 {
			g.cands[i] = 0
		}
	}
	return g, nil
}

// NormalizeUnchecked is the lenient counterpart of ParseUnchecked.
func NormalizeUnchecked(text string) (Grid, error) {
	s, err := collect81(text)
	if err != nil {
		return Grid{}, err
	}
	return ParseUnchecked(s)
}

// Value returns the committed digit at p, 0 if empty.
func (g *Grid) Value(p Pos) uint8 { return g.values[p.Index()] }

// Fixed reports whether p holds a puzzle given.
func (g *Grid) Fixed(p Pos) bool { return g.fixed[p.Index()] }

// Candidates returns the candidate mask for p (bits 1..9).
func (g *Grid) Candidates(p Pos) uint16 { return g.cands[p.Index()] }

// Place commits digit d into the empty cell p. It fails with
// ErrInvalidPlacement if d is out of range, the cell is filled, or d is
// not a current candidate; it fails with ErrContradiction if eliminating
// d strips the last candidate from some peer. There is no rollback: on
// contradiction the caller must discard this copy of the grid.
func (g *Grid) Place(p Pos, d uint8) error {
	if d < 1 || d > 9 {
		return invalidPlacement(p, d, "digit out of range")
	}
	i := p.Index()
	if g.values[i] != 0 {
		return invalidPlacement(p, d, "cell already filled")
	}
	if g.cands[i]&(1<<d) == 0 {
		return invalidPlacement(p, d, "not a candidate")
	}
	g.values[i] = d
	g.cands[i] = 0
	for _, q := range peers[i] {
		g.cands[q] &^= 1 << d
		if g.values[q] == 0 && g.cands[q] == 0 {
			return contradiction(At(q))
		}
	}
	return nil
}

// RemoveCandidate clears digit d from the mask at p and reports whether
// anything changed. Stripping the last candidate from an empty cell is a
// contradiction.
func (g *Grid) RemoveCandidate(p Pos, d uint8) (bool, error) {
	i := p.Index()
	if g.values[i] != 0 || g.cands[i]&(1<<d) == 0 {
		return false, nil
	}
	g.cands[i] &^= 1 << d
	if g.cands[i] == 0 {
		return true, contradiction(p)
	}
	return true, nil
}

// RecomputeCandidates rebuilds every mask from scratch: all digits minus
// the committed values of the cell's peers. Fails with ErrContradiction
// if any empty cell ends up with no candidates.
func (g *Grid) RecomputeCandidates() error {
	for i := range g.cands {
		if g.values[i] != 0 {
			g.cands[i] = 0
		} else {
			g.cands[i] = AllCandidates
		}
	}
	for i, v := range g.values {
		if v == 0 {
			continue
		}
		for _, q := range peers[i] {
			g.cands[q] &^= 1 << v
		}
	}
	for i, v := range g.values {
		if v == 0 && g.cands[i] == 0 {
			return contradiction(At(i))
		}
	}
	return nil
}

// Cleared returns a copy with cell p emptied and all masks rebuilt.
func (g *Grid) Cleared(p Pos) (Grid, error) {
	out := *g
	i := p.Index()
	out.values[i] = 0
	out.fixed[i] = false
	if err := out.RecomputeCandidates(); err != nil {
		return Grid{}, err
	}
	return out, nil
}

// MarkGivens flags every committed value as fixed; the generator calls
// this once carving is done.
func (g *Grid) MarkGivens() {
	for i, v := range g.values {
		g.fixed[i] = v != 0
	}
}

// Solved reports whether every cell is filled. Valid placement is
// enforced on the way in, so a full grid is a solved grid.
func (g *Grid) Solved() bool {
	for _, v := range g.values {
		if v == 0 {
			return false
		}
	}
	return true
}

// Valid reports whether no unit contains a duplicate nonzero digit.
func (g *Grid) Valid() bool {
	for _, f := range g.ConflictMask() {
		if f {
			return false
		}
	}
	return true
}

// ConflictMask flags every cell that shares its nonzero value with
// another cell in its row, column, or box. Feedback only; the solving
// algorithms never consult it.
func (g *Grid) ConflictMask() [81]bool {
	var mask [81]bool
	mark := func(cells [9]int) {
		var counts [10]uint8
		for _, i := range cells {
			counts[g.values[i]]++
		}
		for _, i := range cells {
			if v := g.values[i]; v != 0 && counts[v] > 1 {
				mask[i] = true
			}
		}
	}
	for u := 0; u < 9; u++ {
		var row, col, box [9]int
		br, bc := (u/3)*3, (u%3)*3
		k := 0
		for j := 0; j < 9; j++ {
			row[j] = u*9 + j
			col[j] = j*9 + u
		}
		for rr := br; rr < br+3; rr++ {
			for cc := bc; cc < bc+3; cc++ {
				box[k] = rr*9 + cc
				k++
			}
		}
		mark(row)
		mark(col)
		mark(box)
	}
	return mask
}

// CountClues returns the number of committed values.
func (g *Grid) CountClues() int {
	n := 0
	for _, v := range g.values {
		if v != 0 {
			n++
		}
	}
	return n
}

// Compact serializes the board as 81 characters, '.' for empty. Parse of
// the result round-trips.
func (g *Grid) Compact() string {
	var sb strings.Builder
	sb.Grow(81)
	for _, v := range g.values {
		if v == 0 {
			sb.WriteByte('.')
		} else {
			sb.WriteByte('0' + v)
		}
	}
	return sb.String()
}

// String renders the board with 3x3 frames for logs and traces.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < 9; r++ {
		if r%3 == 0 {
			sb.WriteString("+-------+-------+-------+\n")
		}
		for c := 0; c < 9; c++ {
			if c%3 == 0 {
				sb.WriteString("| ")
			}
			v := g.values[r*9+c]
			if v == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('0' + v)
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+-------+-------+-------+\n")
	return sb.String()
}

// CandidateCount returns the popcount of a candidate mask.
func CandidateCount(mask uint16) int { return bits.OnesCount16(mask) }

// Digits expands a mask into its digits in ascending order.
func Digits(mask uint16) []uint8 {
	out := make([]uint8, 0, 9)
	for d := uint8(1); d <= 9; d++ {
		if mask&(1<<d) != 0 {
			out = append(out, d)
		}
	}
	return out
}

type gridJSON struct {
	Cells string `json:"cells"`
	Fixed string `json:"fixed,omitempty"`
}

// MarshalJSON encodes the board as its compact string plus a fixed-flag
// string, which keeps persisted puzzles human-readable.
func (g Grid) MarshalJSON() ([]byte, error) {
	var fb strings.Builder
	fb.Grow(81)
	any := false
	for _, f := range g.fixed {
		if f {
			fb.WriteByte('1')
			any = true
		} else {
			fb.WriteByte('0')
		}
	}
	out := gridJSON{Cells: g.Compact()}
	if any {
		out.Fixed = fb.String()
	}
	return json.Marshal(out)
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := Parse(in.Cells)
	if err != nil {
		return err
	}
	if len(in.Fixed) == 81 {
		for i := range parsed.fixed {
			parsed.fixed[i] = in.Fixed[i] == '1'
		}
	}
	*g = parsed
	return nil
}
