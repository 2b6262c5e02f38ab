package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three fatal condition classes. Callers match
// with errors.Is; wrapped variants carry cell/digit detail.
var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrContradiction    = errors.New("contradiction")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

func invalidPlacement(p Pos, d uint8, why string) error {
	return fmt.Errorf("%w: digit %d at r%dc%d: %s", ErrInvalidPlacement, d, p.Row+1, p.Col+1, why)
}

func contradiction(p Pos) error {
	return fmt.Errorf("%w: no candidates left at r%dc%d", ErrContradiction, p.Row+1, p.Col+1)
}
