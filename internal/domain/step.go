package domain

// StepKind tags one entry in a solve trace.
type StepKind int

const (
	// StepPlace is a digit committed by a deduction strategy.
	StepPlace StepKind = iota
	// StepEliminate is a candidate removal by a multi-cell strategy
	// (naked pair, pointing, box-line, X-wing); no digit is committed.
	StepEliminate
	// StepGuess is a search decision: a digit tried at an MRV cell.
	StepGuess
	// StepBacktrack marks a failed guess being abandoned.
	StepBacktrack
)

func (k StepKind) String() string {
	switch k {
	case StepPlace:
		return "place"
	case StepEliminate:
		return "eliminate"
	case StepGuess:
		return "guess"
	default:
		return "backtrack"
	}
}

func (k StepKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *StepKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "place":
		*k = StepPlace
	case "eliminate":
		*k = StepEliminate
	case "guess":
		*k = StepGuess
	default:
		*k = StepBacktrack
	}
	return nil
}

// Step is one reportable solver decision: what happened, where, and the
// full board after it. Traces are append-only; consumers may stop reading
// early without affecting the solver.
type Step struct {
	Index  int      `json:"index"`
	Kind   StepKind `json:"kind"`
	Cells  []Pos    `json:"cells,omitempty"`
	Digit  uint8    `json:"digit,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Board  Grid     `json:"board"`
}
