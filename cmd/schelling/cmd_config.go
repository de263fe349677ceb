package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/schelling/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage schelling configuration",
		Long: `View and modify schelling configuration settings.

Configuration is stored in ~/.schelling/config.yaml unless --config is given.
SCHELLING_* environment variables override the file.

Examples:
  schelling config list                          # Show all settings
  schelling config get simulation.threshold      # Get a specific setting
  schelling config set simulation.rounds 50      # Set a setting
  schelling config set history.enabled true`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			w := cmd.OutOrStdout()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(w).Encode(cfg)
			}

			fmt.Fprintln(w, "Simulation Settings:")
			fmt.Fprintf(w, "  simulation.grid_size:  %d\n", cfg.Simulation.GridSize)
			fmt.Fprintf(w, "  simulation.count_a:    %d\n", cfg.Simulation.CountA)
			fmt.Fprintf(w, "  simulation.count_b:    %d\n", cfg.Simulation.CountB)
			fmt.Fprintf(w, "  simulation.threshold:  %.2f\n", cfg.Simulation.Threshold)
			fmt.Fprintf(w, "  simulation.rounds:     %d\n", cfg.Simulation.Rounds)
			if cfg.Simulation.Seed == 0 {
				fmt.Fprintf(w, "  simulation.seed:       (random)\n")
			} else {
				fmt.Fprintf(w, "  simulation.seed:       %d\n", cfg.Simulation.Seed)
			}
			fmt.Fprintf(w, "  simulation.mode:       %s\n", valueOrDefault(cfg.Simulation.Mode, "swap"))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "History Settings:")
			fmt.Fprintf(w, "  history.enabled:       %v\n", cfg.History.Enabled)
			fmt.Fprintf(w, "  history.dir:           %s\n", cfg.HistoryDir())
			if cfg.History.MaxRuns == 0 {
				fmt.Fprintf(w, "  history.max_runs:      (unlimited)\n")
			} else {
				fmt.Fprintf(w, "  history.max_runs:      %d\n", cfg.History.MaxRuns)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Logging Settings:")
			fmt.Fprintf(w, "  logging.level:         %s\n", valueOrDefault(cfg.Logging.Level, "info"))

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			w := cmd.OutOrStdout()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOut {
				return json.NewEncoder(w).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(w, "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]
			path, _ := cmd.Flags().GetString("config")

			cfg, err := loadFileConfig(path)
			if err != nil {
				return err
			}
			if err := setConfigValue(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := saveConfig(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// configPath returns path, or ~/.schelling/config.yaml when path is empty.
func configPath(path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(config.DefaultDir(), "config.yaml")
}

// loadFileConfig loads only the config file, unexpanded, so environment
// overrides and expanded paths are never written back to it.
func loadFileConfig(path string) (*config.SchellingConfig, error) {
	p := configPath(path)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return config.Default(), nil
	}
	cfg, err := config.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.SchellingConfig, key string) (interface{}, bool) {
	switch key {
	case "simulation.grid_size":
		return cfg.Simulation.GridSize, true
	case "simulation.count_a":
		return cfg.Simulation.CountA, true
	case "simulation.count_b":
		return cfg.Simulation.CountB, true
	case "simulation.threshold":
		return cfg.Simulation.Threshold, true
	case "simulation.rounds":
		return cfg.Simulation.Rounds, true
	case "simulation.seed":
		return cfg.Simulation.Seed, true
	case "simulation.mode":
		return cfg.Simulation.Mode, true
	case "history.enabled":
		return cfg.History.Enabled, true
	case "history.dir":
		return cfg.HistoryDir(), true
	case "history.max_runs":
		return cfg.History.MaxRuns, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.SchellingConfig, key, value string) error {
	var err error
	switch key {
	case "simulation.grid_size":
		cfg.Simulation.GridSize, err = strconv.Atoi(value)
	case "simulation.count_a":
		cfg.Simulation.CountA, err = strconv.Atoi(value)
	case "simulation.count_b":
		cfg.Simulation.CountB, err = strconv.Atoi(value)
	case "simulation.threshold":
		cfg.Simulation.Threshold, err = strconv.ParseFloat(value, 64)
	case "simulation.rounds":
		cfg.Simulation.Rounds, err = strconv.Atoi(value)
	case "simulation.seed":
		cfg.Simulation.Seed, err = strconv.ParseUint(value, 10, 64)
	case "simulation.mode":
		cfg.Simulation.Mode = value
	case "history.enabled":
		cfg.History.Enabled = value == "true" || value == "1"
	case "history.dir":
		cfg.History.Dir = value
	case "history.max_runs":
		cfg.History.MaxRuns, err = strconv.Atoi(value)
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", key, value)
	}
	return nil
}

// saveConfig writes the configuration as YAML.
func saveConfig(cfg *config.SchellingConfig, path string) error {
	p := configPath(path)
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
