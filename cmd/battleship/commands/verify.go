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
	verifyRoot  string
	verifySize  int
	verifyVK    string
	verifyProof string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a shot proof against a published board root",
	Long: `Reads a proof payload written by "battleship prove --out" and checks
it against the root the board owner published before play started.

Example:
  battleship verify --root 0x1a2b... --proof shot.json --vk ./keys/shot.vk`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyRoot, "root", "", "Published root (0x hex or decimal)")
	verifyCmd.Flags().IntVar(&verifySize, "size", 0, "Board size (defaults to board.size from config)")
	verifyCmd.Flags().StringVar(&verifyVK, "vk", filepath.Join("keys", zk.VKFile), "Verifying key file")
	verifyCmd.Flags().StringVarP(&verifyProof, "proof", "p", "", "Proof payload JSON file")
	_ = verifyCmd.MarkFlagRequired("root")
	_ = verifyCmd.MarkFlagRequired("proof")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	size := verifySize
	if size == 0 {
		size = cfg.Board.Size
	}

	res, err := verifyPayloadFile(verifyVK, verifyRoot, size, verifyProof)
	if err != nil {
		return printer.Error("proof rejected", err.Error(), []string{
			"Check that --root is the root published for this board",
			"Check that --vk matches the keys the proof was made with",
		})
	}
	printer.Success("(%d, %d): %s, proof verified\n", res.X, res.Y, verdict(res.Hit))
	return nil
}

func verifyPayloadFile(vkPath, rootStr string, size int, proofPath string) (*app.VerifyResult, error) {
	root, err := app.ParseRoot(rootStr)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(proofPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	var payload codec.ShotProofPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return app.Verify(vkPath, root, size, payload)
}
