// Package config loads and validates run configuration from TOML.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// #region config-types

// Config is the full configuration for a driver run.
type Config struct {
	DBPath            string     `toml:"db_path"`
	DatasetSize       int        `toml:"dataset_size"`
	Seed              int64      `toml:"seed"`
	InitialLabels     int        `toml:"initial_labels"`
	Heuristic         string     `toml:"heuristic"`
	QuerySize         int        `toml:"query_size"`
	Iterations        int        `toml:"iterations"`
	ReplicateInMemory bool       `toml:"replicate_in_memory"`
	MaxRounds         int        `toml:"max_rounds"` // 0 = run until the pool is exhausted
	Simulation        Simulation `toml:"simulation"`
}

// Simulation configures the built-in synthetic estimator used when no
// external model is wired in.
type Simulation struct {
	Classes int     `toml:"classes"`
	Noise   float64 `toml:"noise"`
}

// #endregion config-types

// #region defaults

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DBPath:            "active_query.db",
		DatasetSize:       1000,
		Seed:              42,
		InitialLabels:     20,
		Heuristic:         "bald",
		QuerySize:         10,
		Iterations:        20,
		ReplicateInMemory: true,
		MaxRounds:         0,
		Simulation: Simulation{
			Classes: 10,
			Noise:   0.5,
		},
	}
}

// #endregion defaults

// #region load

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field consistency.
func (c Config) Validate() error {
	if c.DatasetSize < 1 {
		return fmt.Errorf("dataset_size must be >= 1, got %d", c.DatasetSize)
	}
	if c.InitialLabels < 0 {
		return fmt.Errorf("initial_labels must be >= 0, got %d", c.InitialLabels)
	}
	if c.InitialLabels > c.DatasetSize {
		return fmt.Errorf("initial_labels %d exceeds dataset_size %d", c.InitialLabels, c.DatasetSize)
	}
	if c.QuerySize < 1 {
		return fmt.Errorf("query_size must be >= 1, got %d", c.QuerySize)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must be >= 0, got %d", c.MaxRounds)
	}
	if c.Heuristic == "" {
		return fmt.Errorf("heuristic must be set")
	}
	if c.Simulation.Classes < 2 {
		return fmt.Errorf("simulation.classes must be >= 2, got %d", c.Simulation.Classes)
	}
	if c.Simulation.Noise < 0 {
		return fmt.Errorf("simulation.noise must be >= 0, got %g", c.Simulation.Noise)
	}
	return nil
}

// #endregion load
