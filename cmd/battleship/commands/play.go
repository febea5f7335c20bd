package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/printer"
	"battleship/internal/targeting"
)

var playSeed int64

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play against a hidden fleet in the terminal",
	Long: `Starts an interactive game. Enter a shot as "x y" (1-based column and
row). Other commands:

  ai      let the targeting strategy take the next shot
  hint    show the cell the strategy would shoot next
  fleet   list ships and how damaged they are
  reveal  print the board with the fleet visible
  quit    leave the game`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "Random seed (overrides config)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	rng, seed := newRNG(cfg, playSeed, cmd.Flags().Changed("seed"))
	g, err := app.NewGame(cfg.Board.Size, cfg.Board.Fleet, rng)
	if err != nil {
		return err
	}
	log.Debug().Int64("seed", seed).Int("size", cfg.Board.Size).Msg("game started")

	return playLoop(g, cmd.InOrStdin(), cmd.OutOrStdout())
}

func playLoop(g *app.Game, in io.Reader, out io.Writer) error {
	printer.RenderBoard(out, g.Board, false)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "quit", "q":
			return nil
		case "fleet":
			printer.RenderFleet(out, g.Board)
			continue
		case "reveal":
			printer.RenderBoard(out, g.Board, true)
			continue
		case "hint":
			x, y, err := hint(g)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "try %d %d\n", x, y)
			continue
		case "ai":
			res, err := g.AIShot()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if report(g, out, res) {
				return nil
			}
			continue
		}

		x, y, err := parseShot(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		res, err := g.Shoot(x, y)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if res.Repeated {
			printer.Fwarning(out, "(%d, %d) was already shot\n", x, y)
			continue
		}
		if report(g, out, res) {
			return nil
		}
	}
}

// report prints a shot outcome and returns true once the game is over.
func report(g *app.Game, out io.Writer, res codec.ShotResult) bool {
	printer.RenderBoard(out, g.Board, res.GameOver)
	verdict := "miss"
	if res.Hit {
		verdict = "hit"
	}
	fmt.Fprintf(out, "(%d, %d): %s\n", res.X, res.Y, verdict)
	if res.Sunk != "" {
		fmt.Fprintf(out, "%s sunk!\n", res.Sunk)
	}
	if res.GameOver {
		fmt.Fprintf(out, "Game over: fleet sunk in %d shots\n", res.Shots)
	}
	return res.GameOver
}

// hint peeks at the strategy, dropping proposals the player already shot.
func hint(g *app.Game) (x, y int, err error) {
	for {
		idx, err := g.Strategy.NextShot()
		if errors.Is(err, targeting.ErrNoMoves) {
			return 0, 0, errors.New("no cells left to suggest")
		}
		if err != nil {
			return 0, 0, err
		}
		x, y = g.Strategy.Coord(idx)
		p, _ := g.Board.At(x, y)
		if !p.IsHit() {
			return x, y, nil
		}
		if _, err := g.Strategy.CommitShot(); err != nil {
			return 0, 0, err
		}
	}
}

func parseShot(line string) (x, y int, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"x y\", got %q", line)
	}
	if x, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("bad column %q", fields[0])
	}
	if y, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("bad row %q", fields[1])
	}
	return x, y, nil
}
