package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/infrastructure/trace"
	"svw.info/suko/internal/ports"
	"svw.info/suko/internal/solver"
)

var (
	solveInput    string
	solveMode     string
	solveMaxSteps int
	solveTraceDir string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a puzzle from a file or stdin",
	Long: `Reads a puzzle (81 symbols; digits 1-9, and 0/./_ for blanks;
other characters are skipped) from --input or stdin and solves it.

With --trace-dir, every solver decision is written as a numbered devlog
file under that directory.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "", "puzzle file (default: stdin)")
	solveCmd.Flags().StringVarP(&solveMode, "mode", "m", "hybrid", "logical|search|hybrid")
	solveCmd.Flags().IntVar(&solveMaxSteps, "max-steps", 0, "step budget, 0 = unlimited")
	solveCmd.Flags().StringVar(&solveTraceDir, "trace-dir", "", "write devlog step files here")
}

func readPuzzle(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	text, err := readPuzzle(solveInput)
	if err != nil {
		return err
	}
	g, err := domain.Normalize(text)
	if err != nil {
		return err
	}

	eng := solver.New()
	opts := ports.SolveOptions{Mode: domain.ParseSolveMode(solveMode), MaxSteps: solveMaxSteps}
	out, steps, stats, err := eng.Solve(cmd.Context(), &g, opts)
	if err != nil {
		return err
	}
	logger.Debug("solve finished",
		zap.Int("steps", len(steps)),
		zap.Int("nodes", stats.Nodes),
		zap.Duration("duration", stats.Duration),
		zap.Bool("solved", out.Solved()))

	if solveTraceDir != "" {
		tw, err := trace.NewWriter(solveTraceDir)
		if err != nil {
			return err
		}
		if _, err := tw.Write("Initialization", []string{"Starting grid:", "", g.String()}); err != nil {
			return err
		}
		for _, s := range steps {
			if _, err := tw.WriteStep(s); err != nil {
				return err
			}
		}
	}

	if out.Solved() {
		fmt.Printf("Solved in %d steps (%d search nodes, %v):\n%s", len(steps), stats.Nodes, stats.Duration, out.String())
	} else {
		fmt.Printf("Stopped after %d steps with a partial board:\n%s", len(steps), out.String())
	}
	fmt.Println(out.Compact())
	return nil
}
