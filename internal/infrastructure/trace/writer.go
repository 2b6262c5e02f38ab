// Package trace writes solver step logs as numbered text files, one per
// step, so a run can be replayed by reading devlog1.txt, devlog2.txt, …
// in order. The solver core never writes these itself; the CLI feeds the
// collected step sequence through a Writer after solving.
package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"svw.info/suko/internal/domain"
)

type Writer struct {
	root  string
	index int
}

// NewWriter prepares root and resumes numbering after any existing
// devlog files in it.
func NewWriter(root string) (*Writer, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	maxIdx := 0
	ents, err := os.ReadDir(root)
	if err == nil {
		for _, e := range ents {
			name := e.Name()
			if !strings.HasPrefix(name, "devlog") || !strings.HasSuffix(name, ".txt") {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "devlog"), ".txt")); err == nil && n > maxIdx {
				maxIdx = n
			}
		}
	}
	return &Writer{root: root, index: maxIdx}, nil
}

// Write appends one entry and returns its path.
func (w *Writer) Write(title string, lines []string) (string, error) {
	w.index++
	path := filepath.Join(w.root, fmt.Sprintf("devlog%d.txt", w.index))
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte('\n')
	sb.WriteString("Timestamp: " + time.Now().UTC().Format("2006-01-02 15:04:05") + " UTC\n")
	sb.WriteString("----------------------------------------\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteStep formats one solver step as a devlog entry.
func (w *Writer) WriteStep(s domain.Step) (string, error) {
	title := fmt.Sprintf("Step %d: %s", s.Index, s.Kind)
	lines := []string{}
	if s.Reason != "" {
		lines = append(lines, s.Reason)
	}
	if len(s.Cells) > 0 {
		var cells []string
		for _, p := range s.Cells {
			cells = append(cells, fmt.Sprintf("r%dc%d", p.Row+1, p.Col+1))
		}
		lines = append(lines, "Cells: "+strings.Join(cells, ", "))
	}
	if s.Digit != 0 {
		lines = append(lines, fmt.Sprintf("Digit: %d", s.Digit))
	}
	lines = append(lines, "", s.Board.String())
	return w.Write(title, lines)
}
