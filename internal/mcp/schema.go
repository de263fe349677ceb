package mcp

import (
	"github.com/nvandessel/schelling/internal/simulation"
	"github.com/nvandessel/schelling/internal/store"
)

// Bounds on what a single tool call may request.
const (
	MaxGridSize = 200
	MaxRounds   = 1000
)

// RunInput defines the input schema for schelling_run.
// Unset fields fall back to the server defaults.
type RunInput struct {
	GridSize  *int     `json:"grid_size,omitempty" jsonschema:"Interior board dimension N (the board is N x N)"`
	CountA    *int     `json:"count_a,omitempty" jsonschema:"Number of type-A agents"`
	CountB    *int     `json:"count_b,omitempty" jsonschema:"Number of type-B agents"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Content score below which an agent relocates (0.0-1.0)"`
	Rounds    *int     `json:"rounds,omitempty" jsonschema:"Number of relocation rounds"`
	Seed      *uint64  `json:"seed,omitempty" jsonschema:"Random seed; 0 or unset picks a fresh one"`
	Mode      *string  `json:"mode,omitempty" jsonschema:"Relocation mode: swap or vacancy"`
	Record    bool     `json:"record,omitempty" jsonschema:"Store the run in history"`
}

// RunOutput defines the output schema for schelling_run.
type RunOutput struct {
	RunID    string                  `json:"run_id" jsonschema:"Identifier of the run"`
	Recorded bool                    `json:"recorded" jsonschema:"Whether the run was stored in history"`
	Seed     uint64                  `json:"seed" jsonschema:"Seed used for the run"`
	Params   simulation.Params       `json:"params" jsonschema:"Effective simulation parameters"`
	Rounds   []simulation.RoundStats `json:"rounds" jsonschema:"Statistics of each round, measured before its moves"`
	Summary  simulation.RoundStats   `json:"summary" jsonschema:"Statistics of the final board"`
	Rows     []string                `json:"rows" jsonschema:"Final board, one string per row"`
}

// HistoryInput defines the input schema for schelling_history.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs to return (default 20)"`
}

// HistoryOutput defines the output schema for schelling_history.
type HistoryOutput struct {
	Runs  []store.RunRecord `json:"runs" jsonschema:"Recorded runs, newest first"`
	Count int               `json:"count" jsonschema:"Number of runs returned"`
}

// RoundsInput defines the input schema for schelling_rounds.
type RoundsInput struct {
	RunID string `json:"run_id" jsonschema:"Identifier of a recorded run"`
}

// RoundsOutput defines the output schema for schelling_rounds.
type RoundsOutput struct {
	RunID  string                  `json:"run_id" jsonschema:"Identifier of the run"`
	Rounds []simulation.RoundStats `json:"rounds" jsonschema:"Per-round statistics in round order"`
	Count  int                     `json:"count" jsonschema:"Number of rounds"`
}

// ExportInput defines the input schema for schelling_export.
type ExportInput struct {
	Path string `json:"path" jsonschema:"File name relative to the export directory, e.g. runs.jsonl"`
}

// ExportOutput defines the output schema for schelling_export.
type ExportOutput struct {
	Path  string `json:"path" jsonschema:"Absolute path of the written file"`
	Count int    `json:"count" jsonschema:"Number of runs exported"`
}
