package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/grid"
	"github.com/nvandessel/schelling/internal/pathutil"
	"github.com/nvandessel/schelling/internal/ratelimit"
	"github.com/nvandessel/schelling/internal/runner"
	"github.com/nvandessel/schelling/internal/simulation"
	"github.com/nvandessel/schelling/internal/store"
)

// errNoHistory is returned by the history tools when the server runs without
// a store.
var errNoHistory = errors.New("run history is not enabled")

// registerTools registers all schelling MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "schelling_run",
		Description: "Run a Schelling segregation simulation and return per-round statistics",
	}, s.handleRun)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "schelling_history",
		Description: "List recorded simulation runs, newest first",
	}, s.handleHistory)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "schelling_rounds",
		Description: "Get the per-round statistics of a recorded run",
	}, s.handleRounds)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "schelling_export",
		Description: "Export all recorded runs as JSON Lines to a file in the export directory",
	}, s.handleExport)
}

// handleRun implements the schelling_run tool.
func (s *Server) handleRun(ctx context.Context, req *sdk.CallToolRequest, args RunInput) (*sdk.CallToolResult, RunOutput, error) {
	p := s.params(args)
	if p.Size > MaxGridSize {
		return nil, RunOutput{}, fmt.Errorf("grid_size %d exceeds maximum %d", p.Size, MaxGridSize)
	}
	if p.Rounds > MaxRounds {
		return nil, RunOutput{}, fmt.Errorf("rounds %d exceeds maximum %d", p.Rounds, MaxRounds)
	}
	if err := p.Validate(); err != nil {
		return nil, RunOutput{}, err
	}
	if err := s.limits.Check("schelling_run", ratelimit.RunCost(p.Size, p.Rounds)); err != nil {
		return nil, RunOutput{}, err
	}
	if args.Record && s.store == nil {
		return nil, RunOutput{}, errNoHistory
	}

	r := &runner.Runner{Logger: s.logger, Rounds: s.rounds}
	if args.Record {
		r.Store = s.store
		r.Retention = s.retention
	}

	var seed uint64
	if args.Seed != nil {
		seed = *args.Seed
	}

	out, err := r.Run(ctx, p, seed)
	if err != nil {
		return nil, RunOutput{}, err
	}

	result := RunOutput{
		RunID:    out.ID,
		Recorded: out.Recorded,
		Seed:     out.Seed,
		Params:   out.Result.Params,
		Rounds:   out.Result.Rounds,
		Summary:  out.Result.Summary,
		Rows:     grid.Rows(out.Result.Final, grid.DefaultGlyphs),
	}
	if result.Rounds == nil {
		result.Rounds = []simulation.RoundStats{}
	}
	return nil, result, nil
}

// params overlays the call arguments on the server defaults.
func (s *Server) params(args RunInput) simulation.Params {
	p := s.defaults
	if args.GridSize != nil {
		p.Size = *args.GridSize
	}
	if args.CountA != nil {
		p.CountA = *args.CountA
	}
	if args.CountB != nil {
		p.CountB = *args.CountB
	}
	if args.Threshold != nil {
		p.Threshold = *args.Threshold
	}
	if args.Rounds != nil {
		p.Rounds = *args.Rounds
	}
	if args.Mode != nil {
		p.Mode = constants.Mode(*args.Mode)
	}
	return p
}

// handleHistory implements the schelling_history tool.
func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, args HistoryInput) (*sdk.CallToolResult, HistoryOutput, error) {
	if s.store == nil {
		return nil, HistoryOutput{}, errNoHistory
	}
	if err := s.limits.Check("schelling_history", 1); err != nil {
		return nil, HistoryOutput{}, err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}

	return nil, HistoryOutput{Runs: runs, Count: len(runs)}, nil
}

// handleRounds implements the schelling_rounds tool.
func (s *Server) handleRounds(ctx context.Context, req *sdk.CallToolRequest, args RoundsInput) (*sdk.CallToolResult, RoundsOutput, error) {
	if s.store == nil {
		return nil, RoundsOutput{}, errNoHistory
	}
	if args.RunID == "" {
		return nil, RoundsOutput{}, errors.New("run_id is required")
	}
	if err := s.limits.Check("schelling_rounds", 1); err != nil {
		return nil, RoundsOutput{}, err
	}

	run, err := s.store.GetRun(ctx, args.RunID)
	if err != nil {
		return nil, RoundsOutput{}, fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return nil, RoundsOutput{}, fmt.Errorf("run not found: %s", args.RunID)
	}

	rounds := run.Rounds
	if rounds == nil {
		rounds = []simulation.RoundStats{}
	}
	return nil, RoundsOutput{RunID: run.ID, Rounds: rounds, Count: len(rounds)}, nil
}

// handleExport implements the schelling_export tool.
func (s *Server) handleExport(ctx context.Context, req *sdk.CallToolRequest, args ExportInput) (*sdk.CallToolResult, ExportOutput, error) {
	if s.store == nil {
		return nil, ExportOutput{}, errNoHistory
	}
	if s.exportDir == "" {
		return nil, ExportOutput{}, errors.New("export directory is not configured")
	}

	path, err := pathutil.Resolve(s.exportDir, args.Path)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	if err := s.limits.Check("schelling_export", 1); err != nil {
		return nil, ExportOutput{}, err
	}

	n, err := exportTo(ctx, s.store, path)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	s.logger.Info("exported runs", "count", n, "path", pathutil.Redact(path))
	return nil, ExportOutput{Path: path, Count: n}, nil
}

// exportTo writes the JSONL export to path, replacing any existing file.
func exportTo(ctx context.Context, rs store.RunStore, path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}

	n, err := store.ExportJSONL(ctx, rs, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to export runs to %s: %w", pathutil.Redact(path), err)
	}
	return n, nil
}
