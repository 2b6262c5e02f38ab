package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"svw.info/suko/internal/domain"
	"svw.info/suko/internal/generator"
	"svw.info/suko/internal/infrastructure/storage"
	"svw.info/suko/internal/ports"
	"svw.info/suko/internal/solver"
)

var (
	genSeed       int64
	genClues      int
	genDifficulty string
	genSaveDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a puzzle with a unique solution",
	Long: `Builds a random full grid for the seed and removes clues while the
puzzle stays uniquely solvable. If the clue target cannot be reached the
closest achievable puzzle is returned; check the printed clue count.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")
	generateCmd.Flags().IntVar(&genClues, "clues", 0, "explicit clue target (overrides --difficulty)")
	generateCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", "medium", "easy|medium|hard|expert")
	generateCmd.Flags().StringVar(&genSaveDir, "save", "", "persist the puzzle under this data directory")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := generator.NewUniqueGenerator(solver.New())

	var (
		p     *domain.Puzzle
		stats ports.Stats
		err   error
	)
	if genClues > 0 {
		p, stats, err = gen.GenerateWithClues(cmd.Context(), seed, genClues)
	} else {
		p, stats, err = gen.Generate(cmd.Context(), seed, domain.ParseDifficulty(genDifficulty))
	}
	if err != nil {
		return err
	}
	logger.Debug("generate finished",
		zap.Int64("seed", seed),
		zap.Int("clues", p.Clues),
		zap.Int("nodes", stats.Nodes),
		zap.Duration("duration", stats.Duration))

	if genSaveDir != "" {
		p.ID = uuid.NewString()
		st := storage.NewFS(genSaveDir)
		if err := st.Save(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Printf("Saved as %s\n", p.ID)
	}

	fmt.Printf("Seed %d, %d clues:\n%s%s\n", seed, p.Clues, p.Grid.String(), p.Grid.Compact())
	return nil
}
