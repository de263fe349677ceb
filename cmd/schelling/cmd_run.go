package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/schelling/internal/config"
	"github.com/nvandessel/schelling/internal/grid"
	"github.com/nvandessel/schelling/internal/logging"
	"github.com/nvandessel/schelling/internal/runner"
	"github.com/nvandessel/schelling/internal/simulation"
	"github.com/nvandessel/schelling/internal/store"
	"github.com/spf13/cobra"
)

// runResult is the JSON shape of a finished run.
type runResult struct {
	RunID    string                  `json:"run_id"`
	Recorded bool                    `json:"recorded"`
	Seed     uint64                  `json:"seed"`
	Params   simulation.Params       `json:"params"`
	Rounds   []simulation.RoundStats `json:"rounds"`
	Summary  simulation.RoundStats   `json:"summary"`
	Rows     []string                `json:"rows,omitempty"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation and print the final board",
		Long: `Run the Schelling model and print the final board.

Flags override the configuration file, which overrides the defaults
(60x60 board, 1400 agents of each type, threshold 0.6, 20 rounds).

Examples:
  schelling run                               # Classic setup
  schelling run --seed 42                     # Reproducible run
  schelling run --grid-size 20 --count-a 150 --count-b 150 --rounds 10
  schelling run --mode vacancy --record       # Move into empty cells, keep history
  schelling run --json --quiet                # Metrics only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			quiet, _ := cmd.Flags().GetBool("quiet")
			glyphSpec, _ := cmd.Flags().GetString("glyphs")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			glyphs := grid.DefaultGlyphs
			if glyphSpec != "" {
				glyphs, err = grid.ParseGlyphs(glyphSpec)
				if err != nil {
					return err
				}
			}

			logger := newLogger(cmd, cfg)
			r := &runner.Runner{
				Logger: logger,
				Rounds: logging.NewRoundLogger(cfg.HistoryDir(), cfg.Logging.Level),
			}
			defer r.Rounds.Close()

			if cfg.History.Enabled {
				s, err := store.NewSQLiteRunStore(cfg.HistoryDir())
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				defer s.Close()
				r.Store = s
				r.Retention = retentionPolicy(cfg)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			out, err := r.Run(ctx, cfg.Simulation.Params(), cfg.Simulation.Seed)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				result := runResult{
					RunID:    out.ID,
					Recorded: out.Recorded,
					Seed:     out.Seed,
					Params:   out.Result.Params,
					Rounds:   out.Result.Rounds,
					Summary:  out.Result.Summary,
				}
				if !quiet {
					result.Rows = grid.Rows(out.Result.Final, glyphs)
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if !quiet {
				if err := grid.RenderWith(w, out.Result.Final, glyphs); err != nil {
					return err
				}
			}

			s := out.Result.Summary
			logger.Info("run complete",
				"seed", out.Seed,
				"dissatisfied", s.Dissatisfied,
				"mean_similarity", s.MeanSimilarity)
			if quiet {
				fmt.Fprintf(w, "seed=%d population=%d dissatisfied=%d mean_similarity=%.4f\n",
					out.Seed, s.Population, s.Dissatisfied, s.MeanSimilarity)
			}
			if out.Recorded {
				fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s\n", out.ID)
			}

			return nil
		},
	}

	def := config.Default().Simulation
	cmd.Flags().Int("grid-size", def.GridSize, "Interior board dimension N")
	cmd.Flags().Int("count-a", def.CountA, "Number of type-A agents")
	cmd.Flags().Int("count-b", def.CountB, "Number of type-B agents")
	cmd.Flags().Float64("threshold", def.Threshold, "Content score below which an agent relocates (0.0-1.0)")
	cmd.Flags().Int("rounds", def.Rounds, "Number of relocation rounds")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks a fresh one)")
	cmd.Flags().String("mode", def.Mode, "Relocation mode: swap or vacancy")
	cmd.Flags().Bool("record", false, "Record the run in history")
	cmd.Flags().Bool("quiet", false, "Print a one-line summary instead of the board")
	cmd.Flags().String("glyphs", "", `Cell glyphs as "empty,a,b" (default "  ,--,||")`)

	return cmd
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *config.SchellingConfig) error {
	flags := cmd.Flags()
	sim := &cfg.Simulation

	var err error
	if flags.Changed("grid-size") {
		sim.GridSize, err = flags.GetInt("grid-size")
	}
	if err == nil && flags.Changed("count-a") {
		sim.CountA, err = flags.GetInt("count-a")
	}
	if err == nil && flags.Changed("count-b") {
		sim.CountB, err = flags.GetInt("count-b")
	}
	if err == nil && flags.Changed("threshold") {
		sim.Threshold, err = flags.GetFloat64("threshold")
	}
	if err == nil && flags.Changed("rounds") {
		sim.Rounds, err = flags.GetInt("rounds")
	}
	if err == nil && flags.Changed("seed") {
		sim.Seed, err = flags.GetUint64("seed")
	}
	if err == nil && flags.Changed("mode") {
		sim.Mode, err = flags.GetString("mode")
	}
	if err == nil && flags.Changed("record") {
		cfg.History.Enabled, err = flags.GetBool("record")
	}
	return err
}

// retentionPolicy returns the pruning policy for history.max_runs, or nil
// when history is unbounded.
func retentionPolicy(cfg *config.SchellingConfig) store.RetentionPolicy {
	if cfg.History.MaxRuns <= 0 {
		return nil
	}
	return store.CountPolicy{MaxRuns: cfg.History.MaxRuns}
}
