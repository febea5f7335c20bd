package commands

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"battleship/internal/config"
	"battleship/internal/logging"
	"battleship/internal/printer"
)

var (
	configPath string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "battleship",
	Short: "Battleship - sink the hidden fleet",
	Long: `Battleship hides a fleet of ships on a square grid. Shoot at cells
until every ship is sunk, or let the hunt/target strategy do it for you.

Boards can be committed to with a salted MiMC Merkle root so that every
hit/miss answer can be backed by a zero-knowledge proof.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to battleship.yml (defaults built in)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level: trace, debug, info, warn, error, disabled")
}

// loadConfig reads --config when given and applies --log-level.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, printer.Error(
				"invalid configuration",
				err.Error(),
				[]string{fmt.Sprintf("Check the file:\n  %s", configPath)},
			)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logging.New(cfg.Log)
}

// newRNG prefers the flag seed, then the configured one, then the clock.
func newRNG(cfg *config.Config, flagSeed int64, flagSet bool) (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	switch {
	case flagSet:
		seed = flagSeed
	case cfg.Seed != nil:
		seed = *cfg.Seed
	}
	return rand.New(rand.NewSource(seed)), seed
}
