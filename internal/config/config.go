// Package config provides unified configuration loading for schelling.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/simulation"
	"gopkg.in/yaml.v3"
)

// SchellingConfig contains all schelling configuration settings.
type SchellingConfig struct {
	// Simulation contains the model parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// History contains settings for the run-history store.
	History HistoryConfig `json:"history" yaml:"history"`

	// Logging contains settings for operational and round logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures the board and the relocation rounds.
type SimulationConfig struct {
	// GridSize is the interior dimension N of the square board.
	GridSize int `json:"grid_size" yaml:"grid_size"`

	// CountA and CountB are the number of agents of each type.
	// Their sum must not exceed GridSize².
	CountA int `json:"count_a" yaml:"count_a"`
	CountB int `json:"count_b" yaml:"count_b"`

	// Threshold is the content score below which an agent relocates.
	// Range: 0.0 to 1.0
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Rounds is the number of relocation rounds.
	Rounds int `json:"rounds" yaml:"rounds"`

	// Seed fixes the random sequence. 0 picks a fresh seed for every run.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Mode is "swap" (default) or "vacancy".
	Mode string `json:"mode" yaml:"mode"`
}

// Params converts the configuration into driver parameters.
func (c SimulationConfig) Params() simulation.Params {
	return simulation.Params{
		Size:      c.GridSize,
		CountA:    c.CountA,
		CountB:    c.CountB,
		Threshold: c.Threshold,
		Rounds:    c.Rounds,
		Mode:      constants.Mode(c.Mode),
	}
}

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	// Enabled records every run in the history database.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir holds schelling.db and rounds.jsonl. Supports ${VAR} and a leading ~.
	// Defaults to ~/.schelling.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// MaxRuns prunes the oldest runs after each recording so that at most
	// MaxRuns remain. 0 keeps everything.
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}

// LoggingConfig configures schelling's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables round logging to <history dir>/rounds.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a SchellingConfig with the classic model parameters.
func Default() *SchellingConfig {
	return &SchellingConfig{
		Simulation: SimulationConfig{
			GridSize:  constants.DefaultGridSize,
			CountA:    constants.DefaultCountA,
			CountB:    constants.DefaultCountB,
			Threshold: constants.DefaultThreshold,
			Rounds:    constants.DefaultRounds,
			Seed:      0,
			Mode:      string(constants.ModeSwap),
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns ~/.schelling, falling back to a relative .schelling
// when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DataDirName
	}
	return filepath.Join(home, constants.DataDirName)
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.schelling/config.yaml -> environment variables
func Load() (*SchellingConfig, error) {
	config := Default()

	configPath := filepath.Join(DefaultDir(), "config.yaml")
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath loads configuration from path when set, otherwise from the
// default locations. Environment overrides apply in both cases.
func LoadPath(path string) (*SchellingConfig, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Fields missing from the file keep their defaults.
func LoadFromFile(path string) (*SchellingConfig, error) {
	config, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	config.History.Dir = expandPath(config.History.Dir)
	return config, nil
}

// ReadFile parses a YAML config file without expanding paths, so the
// result can be written back unchanged.
func ReadFile(path string) (*SchellingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// HistoryDir returns the configured history directory or the default one.
func (c *SchellingConfig) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return DefaultDir()
}

// Validate checks that the configuration is valid.
func (c *SchellingConfig) Validate() error {
	if err := c.Simulation.Params().Validate(); err != nil {
		return fmt.Errorf("invalid simulation settings: %w", err)
	}

	if c.History.MaxRuns < 0 {
		return fmt.Errorf("invalid history.max_runs: %d (must be >= 0)", c.History.MaxRuns)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Values that fail to parse are ignored.
func applyEnvOverrides(config *SchellingConfig) {
	if v := os.Getenv("SCHELLING_GRID_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.GridSize = n
		}
	}
	if v := os.Getenv("SCHELLING_COUNT_A"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.CountA = n
		}
	}
	if v := os.Getenv("SCHELLING_COUNT_B"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.CountB = n
		}
	}
	if v := os.Getenv("SCHELLING_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Threshold = f
		}
	}
	if v := os.Getenv("SCHELLING_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Rounds = n
		}
	}
	if v := os.Getenv("SCHELLING_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}
	if v := os.Getenv("SCHELLING_MODE"); v != "" {
		config.Simulation.Mode = v
	}

	if v := os.Getenv("SCHELLING_HISTORY"); v != "" {
		config.History.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SCHELLING_HISTORY_DIR"); v != "" {
		config.History.Dir = expandPath(v)
	}
	if v := os.Getenv("SCHELLING_HISTORY_MAX_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.History.MaxRuns = n
		}
	}

	if v := os.Getenv("SCHELLING_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandPath expands ${VAR} patterns and a leading ~ in a path.
func expandPath(s string) string {
	if strings.Contains(s, "${") {
		s = os.Expand(s, os.Getenv)
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, strings.TrimPrefix(s, "~"))
		}
	}
	return s
}
