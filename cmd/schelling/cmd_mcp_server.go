package main

import (
	"fmt"

	"github.com/nvandessel/schelling/internal/logging"
	"github.com/nvandessel/schelling/internal/mcp"
	"github.com/nvandessel/schelling/internal/pathutil"
	"github.com/nvandessel/schelling/internal/store"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the simulation as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  schelling_run      Run a simulation; unset parameters use the configuration
  schelling_history  List recorded runs
  schelling_rounds   Per-round statistics of a recorded run
  schelling_export   Write recorded runs as JSONL under <history dir>/exports

The history tools and run recording need history.enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			rounds := logging.NewRoundLogger(cfg.HistoryDir(), cfg.Logging.Level)
			defer rounds.Close()

			serverCfg := &mcp.Config{
				Name:      "schelling",
				Version:   version,
				Defaults:  cfg.Simulation.Params(),
				ExportDir: pathutil.ExportDir(cfg.HistoryDir()),
				Logger:    newLogger(cmd, cfg),
				Rounds:    rounds,
			}
			if cfg.History.Enabled {
				s, err := store.NewSQLiteRunStore(cfg.HistoryDir())
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				serverCfg.Store = s
				serverCfg.Retention = retentionPolicy(cfg)
			}

			server, err := mcp.NewServer(serverCfg)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			return server.Run(cmd.Context())
		},
	}
}
