package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"battleship/internal/app"
	"battleship/internal/printer"
)

var (
	autoGames int
	autoSeed  int64
	autoShow  bool
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the targeting strategy sink random fleets",
	Long: `Plays one or more games with no human input: the fleet is placed at
random and the hunt/target strategy shoots until every ship is sunk.

Examples:
  # One game, showing the final board
  battleship auto --show

  # Average over 1000 reproducible games
  battleship auto --games 1000 --seed 7`,
	RunE: runAuto,
}

func init() {
	autoCmd.Flags().IntVarP(&autoGames, "games", "n", 1, "Number of games to play")
	autoCmd.Flags().Int64Var(&autoSeed, "seed", 0, "Random seed (overrides config)")
	autoCmd.Flags().BoolVar(&autoShow, "show", false, "Print the final board of each game")
	rootCmd.AddCommand(autoCmd)
}

func runAuto(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if autoGames < 1 {
		return printer.Error("invalid --games", fmt.Sprintf("Got %d.", autoGames), []string{"Use --games 1 or more"})
	}

	rng, seed := newRNG(cfg, autoSeed, cmd.Flags().Changed("seed"))
	log.Debug().Int64("seed", seed).Int("games", autoGames).Msg("autoplay")

	total, best, worst := 0, 0, 0
	out := cmd.OutOrStdout()
	for i := 1; i <= autoGames; i++ {
		g, err := app.NewGame(cfg.Board.Size, cfg.Board.Fleet, rng)
		if err != nil {
			return err
		}
		shots, err := g.Autoplay()
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		total += shots
		if best == 0 || shots < best {
			best = shots
		}
		if shots > worst {
			worst = shots
		}
		if autoShow {
			printer.RenderBoard(out, g.Board, true)
		}
		if autoGames <= 10 {
			fmt.Fprintf(out, "game %d: %d shots\n", i, shots)
		}
	}
	fmt.Fprintf(out, "games: %d  average: %.2f  best: %d  worst: %d\n",
		autoGames, float64(total)/float64(autoGames), best, worst)
	return nil
}
