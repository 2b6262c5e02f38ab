package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A classic, solvable Sudoku ('.' = empty).
const samplePuzzle = "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"

func TestParseRoundTrip(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)
	assert.Equal(t, samplePuzzle, g.Compact())
	assert.False(t, g.Solved())
	assert.True(t, g.Valid())
}

func TestParseMarksGivensFixed(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)
	for i := 0; i < 81; i++ {
		p := At(i)
		assert.Equal(t, g.Value(p) != 0, g.Fixed(p), "cell %d", i)
	}
}

func TestParseWrongLength(t *testing.T) {
	_, err := Parse(samplePuzzle[:80])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseInvalidCharacter(t *testing.T) {
	bad := "x" + samplePuzzle[1:]
	_, err := Parse(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseContradictoryGivens(t *testing.T) {
	// Two 5s in the first row.
	bad := "55" + samplePuzzle[2:]
	_, err := Parse(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestNormalizeSkipsJunk(t *testing.T) {
	noisy := "53..7....\n6..195...\n.98....6.\n8...6...3\n4..8.3..1\n7...2...6\n.6....28.\n...419..5\n....8..79\n"
	g, err := Normalize(noisy)
	require.NoError(t, err)
	assert.Equal(t, samplePuzzle, g.Compact())

	_, err = Normalize("123")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestRecomputeCandidatesMatchesPeers(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)
	require.NoError(t, g.RecomputeCandidates())

	for i := 0; i < 81; i++ {
		p := At(i)
		if g.Value(p) != 0 {
			assert.Zero(t, g.Candidates(p), "filled cell %d must have an empty mask", i)
			continue
		}
		want := AllCandidates
		r, c := p.Row, p.Col
		br, bc := (r/3)*3, (c/3)*3
		for k := 0; k < 9; k++ {
			want &^= 1 << g.Value(Pos{Row: r, Col: k})
			want &^= 1 << g.Value(Pos{Row: k, Col: c})
		}
		for rr := br; rr < br+3; rr++ {
			for cc := bc; cc < bc+3; cc++ {
				want &^= 1 << g.Value(Pos{Row: rr, Col: cc})
			}
		}
		want &^= 1 // bit 0 is never meaningful
		assert.Equal(t, want, g.Candidates(p), "cell %d", i)
	}
}

func TestPlaceRejectsNonCandidate(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)

	// r0c2 shares its row with the given 5 at r0c0, so 5 is not a
	// candidate there.
	p := Pos{Row: 0, Col: 2}
	require.Zero(t, g.Value(p))
	require.Zero(t, g.Candidates(p)&(1<<5), "precondition: 5 must not be a candidate")

	before := g
	err = g.Place(p, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.Equal(t, before, g, "failed placement must leave the board unchanged")
}

func TestPlaceRejectsRangeAndFilled(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Place(Pos{Row: 0, Col: 2}, 0), ErrInvalidPlacement)
	assert.ErrorIs(t, g.Place(Pos{Row: 0, Col: 2}, 10), ErrInvalidPlacement)
	assert.ErrorIs(t, g.Place(Pos{Row: 0, Col: 0}, 4), ErrInvalidPlacement) // already filled
}

func TestPlaceIsMonotonic(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)

	for i := 0; i < 81; i++ {
		p := At(i)
		if g.Value(p) != 0 {
			continue
		}
		for _, d := range Digits(g.Candidates(p)) {
			child := g
			if err := child.Place(p, d); err != nil {
				require.ErrorIs(t, err, ErrContradiction)
				continue
			}
			for j := 0; j < 81; j++ {
				q := At(j)
				assert.LessOrEqual(t,
					CandidateCount(child.Candidates(q)),
					CandidateCount(g.Candidates(q)),
					"placement of %d at cell %d grew the mask of cell %d", d, i, j)
			}
		}
	}
}

func TestPlaceEliminatesFromPeers(t *testing.T) {
	g := NewGrid()
	p := Pos{Row: 4, Col: 4}
	require.NoError(t, g.Place(p, 7))
	assert.Zero(t, g.Candidates(p))
	for _, q := range []Pos{{4, 0}, {0, 4}, {3, 3}, {5, 5}} {
		assert.Zero(t, g.Candidates(q)&(1<<7), "peer %v still allows 7", q)
	}
	// a non-peer keeps the candidate
	assert.NotZero(t, g.Candidates(Pos{Row: 0, Col: 0})&(1<<7))
}

func TestRemoveCandidateContradiction(t *testing.T) {
	g := NewGrid()
	p := Pos{Row: 0, Col: 0}
	var lastErr error
	for d := uint8(1); d <= 9; d++ {
		_, lastErr = g.RemoveCandidate(p, d)
	}
	require.Error(t, lastErr)
	assert.True(t, errors.Is(lastErr, ErrContradiction))
}

func TestConflictMask(t *testing.T) {
	// Duplicate 5 in row 0, duplicate 9 in column 8 via ParseUnchecked.
	raw := []byte(strings.Repeat(".", 81))
	raw[0], raw[4] = '5', '5'
	raw[8], raw[80] = '9', '9'
	g, err := ParseUnchecked(string(raw))
	require.NoError(t, err)

	mask := g.ConflictMask()
	assert.True(t, mask[0])
	assert.True(t, mask[4])
	assert.True(t, mask[8])
	assert.True(t, mask[80])
	flagged := 0
	for _, f := range mask {
		if f {
			flagged++
		}
	}
	assert.Equal(t, 4, flagged)
	assert.False(t, g.Valid())
}

func TestClearedRestoresCandidates(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)
	p := Pos{Row: 0, Col: 0} // the given 5

	out, err := g.Cleared(p)
	require.NoError(t, err)
	assert.Zero(t, out.Value(p))
	assert.False(t, out.Fixed(p))
	assert.NotZero(t, out.Candidates(p)&(1<<5), "5 must be allowed again after clearing")
	// original untouched
	assert.EqualValues(t, 5, g.Value(p))
}

func TestGridJSONRoundTrip(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back Grid
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g.Compact(), back.Compact())
	for i := 0; i < 81; i++ {
		assert.Equal(t, g.Fixed(At(i)), back.Fixed(At(i)), "fixed flag %d", i)
	}
}

func TestCountClues(t *testing.T) {
	g, err := Parse(samplePuzzle)
	require.NoError(t, err)
	assert.Equal(t, 30, g.CountClues())
}
