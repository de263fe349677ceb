package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `Inspect runs recorded with 'schelling run --record' or history.enabled.

History is stored in <history dir>/schelling.db (default ~/.schelling).

Examples:
  schelling history list --limit 5
  schelling history show <run-id>
  schelling history export > runs.jsonl
  schelling history prune --keep 100 --max-age 720h`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryShowCmd(),
		newHistoryExportCmd(),
		newHistoryPruneCmd(),
	)

	return cmd
}

// openHistory opens the history store for reading. Returns nil when no
// history has been recorded yet.
func openHistory(cmd *cobra.Command) (*store.SQLiteRunStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dir := cfg.HistoryDir()
	if _, err := os.Stat(filepath.Join(dir, store.DBFile)); os.IsNotExist(err) {
		return nil, nil
	}

	s, err := store.NewSQLiteRunStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return s, nil
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			w := cmd.OutOrStdout()

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}

			var runs []store.RunRecord
			if s != nil {
				defer s.Close()
				runs, err = s.ListRuns(context.Background(), limit)
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}
			}

			if jsonOut {
				if runs == nil {
					runs = []store.RunRecord{}
				}
				return json.NewEncoder(w).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(w, "No recorded runs.")
				return nil
			}

			fmt.Fprintf(w, "Recorded runs (%d):\n\n", len(runs))
			for _, r := range runs {
				fmt.Fprintf(w, "%s  %s\n", r.ID, humanize.Time(r.StartedAt))
				fmt.Fprintf(w, "  %dx%d  a=%d b=%d  threshold=%.2f  rounds=%d  mode=%s  seed=%d\n",
					r.Params.Size, r.Params.Size, r.Params.CountA, r.Params.CountB,
					r.Params.Threshold, r.Params.Rounds, r.Params.Mode, r.Seed)
				fmt.Fprintf(w, "  dissatisfied=%d  mean_similarity=%.4f\n",
					r.Summary.Dissatisfied, r.Summary.MeanSimilarity)
			}

			return nil
		},
	}

	cmd.Flags().Int("limit", constants.DefaultHistoryLimit, "Maximum number of runs to show (0 for all)")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run with its per-round statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			id := args[0]
			w := cmd.OutOrStdout()

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("run not found: %s", id)
			}
			defer s.Close()

			run, err := s.GetRun(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run not found: %s", id)
			}

			if jsonOut {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}

			fmt.Fprintf(w, "Run:        %s\n", run.ID)
			fmt.Fprintf(w, "Started:    %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
			fmt.Fprintf(w, "Duration:   %s\n", run.Duration())
			fmt.Fprintf(w, "Seed:       %d\n", run.Seed)
			fmt.Fprintf(w, "Board:      %dx%d (a=%d, b=%d, %s empty)\n",
				run.Params.Size, run.Params.Size, run.Params.CountA, run.Params.CountB,
				humanize.Comma(int64(run.Params.Size*run.Params.Size-run.Params.CountA-run.Params.CountB)))
			fmt.Fprintf(w, "Threshold:  %.2f\n", run.Params.Threshold)
			fmt.Fprintf(w, "Mode:       %s\n", run.Params.Mode)
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%5s  %12s  %10s  %15s  %10s\n", "round", "dissatisfied", "candidates", "mean_similarity", "stddev")
			for _, r := range run.Rounds {
				fmt.Fprintf(w, "%5d  %12d  %10d  %15.4f  %10.4f\n",
					r.Round, r.Dissatisfied, r.Candidates, r.MeanSimilarity, r.SimilarityStdDev)
			}
			fmt.Fprintf(w, "%5s  %12d  %10s  %15.4f  %10.4f\n",
				"final", run.Summary.Dissatisfied, "-", run.Summary.MeanSimilarity, run.Summary.SimilarityStdDev)

			return nil
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export every recorded run as JSON Lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			if s == nil {
				return nil
			}
			defer s.Close()

			n, err := store.ExportJSONL(context.Background(), s, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("failed to export runs: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d runs\n", n)
			return nil
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs from history",
		Long: `Delete recorded runs that fall outside the retention limits.

A run is kept only if it satisfies every given limit. With no flags,
history.max_runs from the configuration is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			keep, _ := cmd.Flags().GetInt("keep")
			maxAge, _ := cmd.Flags().GetDuration("max-age")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if keep < 0 || maxAge < 0 {
				return fmt.Errorf("--keep and --max-age must not be negative")
			}

			var policy store.AllPolicy
			if cmd.Flags().Changed("keep") {
				policy = append(policy, store.CountPolicy{MaxRuns: keep})
			} else if cfg.History.MaxRuns > 0 {
				policy = append(policy, store.CountPolicy{MaxRuns: cfg.History.MaxRuns})
			}
			if maxAge > 0 {
				policy = append(policy, store.AgePolicy{MaxAge: maxAge})
			}
			if len(policy) == 0 {
				return fmt.Errorf("nothing to prune by: pass --keep or --max-age, or set history.max_runs")
			}

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			deleted := 0
			if s != nil {
				defer s.Close()
				deleted, err = store.Prune(context.Background(), s, policy)
				if err != nil {
					return fmt.Errorf("failed to prune history: %w", err)
				}
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"deleted": deleted,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs\n", deleted)
			return nil
		},
	}

	cmd.Flags().Int("keep", 0, "Keep at most this many of the newest runs")
	cmd.Flags().Duration("max-age", 0, "Delete runs older than this (e.g. 720h)")

	return cmd
}
