package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/printer"
	"battleship/internal/zk"
)

var (
	proveSeed int64
	proveKeys string
	proveX    int
	proveY    int
	proveOut  string
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Commit to a random board and prove one cell's hit/miss answer",
	Long: `Places a fleet, publishes a salted MiMC Merkle root of the layout,
proves the answer for cell (x, y) with groth16 and verifies the proof
against the published root. Keys are created in --keys on first use.
With --out the proof payload is written as JSON for "battleship verify".

Example:
  battleship prove --seed 1 --x 3 --y 5 --keys ./keys --out shot.json`,
	RunE: runProve,
}

func init() {
	proveCmd.Flags().Int64Var(&proveSeed, "seed", 0, "Random seed (overrides config)")
	proveCmd.Flags().StringVar(&proveKeys, "keys", "./keys", "Keys directory")
	proveCmd.Flags().IntVar(&proveX, "x", 1, "1-based column")
	proveCmd.Flags().IntVar(&proveY, "y", 1, "1-based row")
	proveCmd.Flags().StringVarP(&proveOut, "out", "o", "", "Write the proof payload JSON to this file")
	rootCmd.AddCommand(proveCmd)
}

func runProve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	rng, seed := newRNG(cfg, proveSeed, cmd.Flags().Changed("seed"))

	g, err := app.NewGame(cfg.Board.Size, cfg.Board.Fleet, rng)
	if err != nil {
		return err
	}
	if err := g.Commit(); err != nil {
		return printer.Error("cannot commit board", err.Error(),
			[]string{fmt.Sprintf("Use a board of at most 16x16 cells (got %d)", cfg.Board.Size)})
	}
	printer.Step("committed layout (seed %d)\n", seed)
	printer.Info("ROOT: %s\n", g.Commitment.RootHex())

	printer.Step("preparing keys in %s\n", proveKeys)
	if err := zk.EnsureKeys(proveKeys); err != nil {
		return err
	}

	payload, err := app.Prove(g.Commitment, proveKeys, proveX, proveY)
	if err != nil {
		return err
	}
	log.Debug().Int("bytes", len(payload.Proof)).Msg("proof generated")

	res, err := app.Verify(filepath.Join(proveKeys, zk.VKFile), g.Commitment.Root, cfg.Board.Size, *payload)
	if err != nil {
		return printer.Error("proof rejected", err.Error(), nil)
	}
	printer.Success("(%d, %d): %s, proof verified\n", res.X, res.Y, verdict(res.Hit))

	if proveOut != "" {
		if err := writePayload(proveOut, payload); err != nil {
			return err
		}
		printer.Info("payload written to %s\n", proveOut)
	}
	return nil
}

func verdict(hit uint8) string {
	if hit == 1 {
		return "HIT"
	}
	return "MISS"
}

func writePayload(path string, payload *codec.ShotProofPayload) error {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}
