package domain

// Hint describes a strategy suggestion for the UI.
type Hint struct {
	Message  string       `json:"message,omitempty"`
	Cells    []Pos        `json:"cells,omitempty"`
	Digit    uint8        `json:"digit,omitempty"`
	Strategy StrategyTier `json:"strategy,omitempty"`
}

// Puzzle is a persisted Sudoku with metadata.
type Puzzle struct {
	ID         string     `json:"id,omitempty"`
	Seed       int64      `json:"seed,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Clues      int        `json:"clues,omitempty"`
	Grid       Grid       `json:"grid"`
	CreatedAt  int64      `json:"createdAt,omitempty"`
	// Optional user metadata
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}

// HighscoreEntry records a finished interactive game. The core never
// reads or writes these; they exist for front ends only.
type HighscoreEntry struct {
	TimeMs  int64  `json:"timeMs"`
	Seed    string `json:"seed,omitempty"`
	Clues   int    `json:"clues,omitempty"`
	DateUTC string `json:"dateUtc"`
	// When no seed was used, the finished 81-char grid allows replays.
	Solution string `json:"solution,omitempty"`
}
