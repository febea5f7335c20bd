package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"battleship/internal/game"
)

// Config is the top-level battleship.yml configuration
type Config struct {
	Board  BoardConfig  `yaml:"board"`
	Seed   *int64       `yaml:"seed,omitempty"` // fixed RNG seed; random when omitted
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// BoardConfig describes the grid and the fleet hidden in it
type BoardConfig struct {
	Size  int              `yaml:"size"`
	Fleet []game.ShipClass `yaml:"fleet,omitempty"` // default fleet when empty
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	KeysDir string `yaml:"keys_dir,omitempty"` // enables shot proofs when set
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

const (
	DefaultSize = 10
	DefaultAddr = ":8080"
)

// Default returns a 10x10 board with the default fleet
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Board.Size == 0 {
		c.Board.Size = DefaultSize
	}
	if len(c.Board.Fleet) == 0 {
		c.Board.Fleet = game.DefaultFleet()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate applies defaults and checks the board can host its fleet
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Board.Size < 1 {
		return fmt.Errorf("board.size must be >= 1, got %d", c.Board.Size)
	}

	names := make(map[string]bool)
	for i, s := range c.Board.Fleet {
		if s.Name == "" {
			return fmt.Errorf("board.fleet[%d]: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("board.fleet[%d]: duplicate ship name '%s'", i, s.Name)
		}
		names[s.Name] = true
		if s.Length < 1 {
			return fmt.Errorf("ship '%s': length must be >= 1, got %d", s.Name, s.Length)
		}
		if s.Length > c.Board.Size {
			return fmt.Errorf("ship '%s': length %d does not fit board size %d", s.Name, s.Length, c.Board.Size)
		}
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log.level: %s (must be trace, debug, info, warn, error or disabled)", c.Log.Level)
	}
	return nil
}

// Load reads and validates battleship.yml from the specified path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
