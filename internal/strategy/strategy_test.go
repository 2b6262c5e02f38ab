package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/suko/internal/domain"
)

const (
	samplePuzzle   = "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"
	sampleSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"
)

func mustGrid(t *testing.T, s string) domain.Grid {
	t.Helper()
	g, err := domain.Parse(s)
	require.NoError(t, err)
	require.NoError(t, g.RecomputeCandidates())
	return g
}

func TestNakedSingleApplies(t *testing.T) {
	// Row 0 holds 1..8; the last cell is a naked single for 9.
	g := mustGrid(t, "12345678."+strings.Repeat(".", 72))
	res, ok, err := NakedSingle(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StepPlace, res.Kind)
	assert.Equal(t, uint8(9), res.Digit)
	assert.Equal(t, []domain.Pos{{Row: 0, Col: 8}}, res.Cells)
	assert.EqualValues(t, 9, g.Value(domain.Pos{Row: 0, Col: 8}))
}

func TestHiddenSingleApplies(t *testing.T) {
	// In row 0 the digit 4 is squeezed into r0c5: columns 3 and 4 carry a
	// 4 further down, and the 4 in box 2 blocks columns 6-8.
	g := mustGrid(t,
		"123......"+
			"......4.."+
			"........."+
			"...4....."+
			"........."+
			"........."+
			"....4...."+
			"........."+
			".........")
	res, ok, err := HiddenSingle(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StepPlace, res.Kind)
	assert.Equal(t, uint8(4), res.Digit)
	assert.Equal(t, []domain.Pos{{Row: 0, Col: 5}}, res.Cells)
}

func TestBatteryIsDeterministic(t *testing.T) {
	collect := func() []string {
		g := mustGrid(t, samplePuzzle)
		var reasons []string
		require.NoError(t, Run(&g, func(r Result) bool {
			reasons = append(reasons, r.Reason)
			return true
		}))
		return reasons
	}
	first := collect()
	second := collect()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second, "identical input must give identical step sequences")
}

func TestRulesAreIdempotent(t *testing.T) {
	g := mustGrid(t, samplePuzzle)
	require.NoError(t, Run(&g, nil)) // drive to fixpoint

	for _, e := range Battery {
		before := g
		_, ok, err := e.Apply(&g)
		require.NoError(t, err, e.Name)
		assert.False(t, ok, "%s applied again at fixpoint", e.Name)
		assert.Equal(t, before, g, "%s changed the grid without reporting", e.Name)
	}
}

// Every rule must be sound: on a puzzle with a known unique solution, no
// application may ever remove the solution's digit from a cell.
func TestBatteryNeverEliminatesSolution(t *testing.T) {
	sol, err := domain.Parse(sampleSolution)
	require.NoError(t, err)

	g := mustGrid(t, samplePuzzle)
	check := func(strategyName string) {
		for i := 0; i < 81; i++ {
			p := domain.At(i)
			want := sol.Value(p)
			if v := g.Value(p); v != 0 {
				require.Equal(t, want, v, "%s placed a wrong digit at cell %d", strategyName, i)
				continue
			}
			require.NotZero(t, g.Candidates(p)&(1<<want),
				"%s removed solution digit %d from cell %d", strategyName, want, i)
		}
	}

	for {
		applied := false
		for _, e := range Battery {
			res, ok, err := e.Apply(&g)
			require.NoError(t, err)
			if ok {
				applied = true
				check(res.Strategy)
				break
			}
		}
		if !applied {
			break
		}
	}
}

func TestRunSolvesSampleLogically(t *testing.T) {
	g := mustGrid(t, samplePuzzle)
	placed := 0
	require.NoError(t, Run(&g, func(r Result) bool {
		if r.Kind == domain.StepPlace {
			placed++
		}
		return true
	}))
	assert.True(t, g.Solved(), "expected the battery to finish the easy sample")
	assert.Equal(t, sampleSolution, g.Compact())
	assert.Equal(t, 51, placed, "51 placements fill the remaining cells")
}

func TestRunReportStopsEarly(t *testing.T) {
	g := mustGrid(t, samplePuzzle)
	calls := 0
	require.NoError(t, Run(&g, func(r Result) bool {
		calls++
		return calls < 3
	}))
	assert.Equal(t, 3, calls)
	assert.False(t, g.Solved())
}

func TestNakedPairEliminates(t *testing.T) {
	// Row 0 is missing {1,2,3}. The 3s in columns 0 and 1 pin r0c0 and
	// r0c1 to the identical pair {1,2}, which then strips 1 and 2 from
	// r0c8, leaving it a bare 3.
	g := mustGrid(t,
		"..456789."+
			"........."+
			"........."+
			"3........"+
			".3......."+
			"........."+
			"........."+
			"........."+
			".........")
	p1, p2 := domain.Pos{Row: 0, Col: 0}, domain.Pos{Row: 0, Col: 1}
	require.Equal(t, g.Candidates(p1), g.Candidates(p2))
	require.Equal(t, 2, domain.CandidateCount(g.Candidates(p1)))

	res, ok, err := NakedPair(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StepEliminate, res.Kind)
	assert.Equal(t, []domain.Pos{{Row: 0, Col: 8}}, res.Cells)
	assert.Equal(t, uint16(1)<<3, g.Candidates(domain.Pos{Row: 0, Col: 8}))
}

func TestPointingPairEliminates(t *testing.T) {
	// In box 0, candidates for 1 are confined to row 2 (rows 0 and 1 of
	// the box are fully occupied), so 1 is removed from row 2 outside
	// the box.
	g := mustGrid(t,
		"234......"+
		"567......"+
		"........."+
		"........."+
		"........."+
		"........."+
		"........."+
		"........."+
		".........")
	target := domain.Pos{Row: 2, Col: 5}
	require.NotZero(t, g.Candidates(target)&(1<<1), "precondition: 1 open outside the box")

	res, ok, err := PointingPairTriple(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StepEliminate, res.Kind)
	assert.Equal(t, uint8(1), res.Digit)
	assert.Zero(t, g.Candidates(target)&(1<<1), "1 must be gone from row 2 outside box 0")
}

func TestBoxLineReductionEliminates(t *testing.T) {
	// In row 0, candidates for 1 survive only in box 0: columns 3..8 of
	// row 0 are filled. Box-line reduction then strips 1 from the rest
	// of box 0.
	g := mustGrid(t,
		"...234567"+
		"........."+
		"........."+
		"........."+
		"........."+
		"........."+
		"........."+
		"........."+
		".........")
	inBoxOffLine := domain.Pos{Row: 1, Col: 0}
	require.NotZero(t, g.Candidates(inBoxOffLine)&(1<<1))

	res, ok, err := BoxLineReduction(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(1), res.Digit)
	assert.Zero(t, g.Candidates(inBoxOffLine)&(1<<1), "1 must be gone from box 0 outside row 0")
}

func TestXWingEliminates(t *testing.T) {
	// Rows 0 and 4 each allow 1 only in columns 0 and 8; every other
	// column of those rows is filled with 2..8 (avoiding 1 and 9 so the
	// wing cells keep 1 as a candidate).
	g := mustGrid(t,
		".2345678."+
		"........."+
		"........."+
		"........."+
		".3456782."+ // a latin-shifted middle row, same columns open
		"........."+
		"........."+
		"........."+
		".........")
	r0 := candidatePositions(&g, 1, lineRow, 0)
	r4 := candidatePositions(&g, 1, lineRow, 4)
	require.Equal(t, []int{0, 8}, r0)
	require.Equal(t, []int{0, 8}, r4)

	other := domain.Pos{Row: 6, Col: 0}
	require.NotZero(t, g.Candidates(other)&(1<<1))

	res, ok, err := XWing(&g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint8(1), res.Digit)
	assert.Zero(t, g.Candidates(other)&(1<<1), "1 must be gone from column 0 outside the wing rows")
	assert.NotZero(t, g.Candidates(domain.Pos{Row: 0, Col: 0})&(1<<1), "wing cells keep the digit")
}
