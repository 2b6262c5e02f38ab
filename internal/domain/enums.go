package domain

// Difficulty labels target puzzle generation & grading.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "medium"
	}
}

// ParseDifficulty maps a user-facing label; unknown values default to
// Medium, matching the HTTP adapter's historical behavior.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "easy":
		return Easy
	case "hard":
		return Hard
	case "expert":
		return Expert
	default:
		return Medium
	}
}

// StrategyTier limits hinting/logic complexity used.
type StrategyTier int

const (
	StrategySingles  StrategyTier = iota // naked/hidden singles
	StrategyPairs                        // naked pairs
	StrategyAdvanced                     // pointing, box-line reduction
	StrategyXWing                        // basic fish
)

// SolveMode selects which engines the top-level solve runs.
type SolveMode int

const (
	// LogicalOnly applies the strategy battery to fixpoint and stops,
	// possibly with a partial board.
	LogicalOnly SolveMode = iota
	// SearchOnly goes straight to MRV backtracking.
	SearchOnly
	// Hybrid narrows with strategies first, then searches if needed.
	Hybrid
)

func (m SolveMode) String() string {
	switch m {
	case LogicalOnly:
		return "logical"
	case SearchOnly:
		return "search"
	default:
		return "hybrid"
	}
}

// ParseSolveMode maps a mode string; unknown values fall back to Hybrid,
// the default for both the CLI and the server.
func ParseSolveMode(s string) SolveMode {
	switch s {
	case "logical":
		return LogicalOnly
	case "search":
		return SearchOnly
	default:
		return Hybrid
	}
}
