package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ExportJSONL writes every run in s, newest first, as one JSON object per
// line with its rounds included. Returns the number of runs written.
func ExportJSONL(ctx context.Context, s RunStore, w io.Writer) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}

	enc := json.NewEncoder(w)
	for i, run := range runs {
		rounds, err := s.Rounds(ctx, run.ID)
		if err != nil {
			return i, fmt.Errorf("failed to load rounds for %s: %w", run.ID, err)
		}
		run.Rounds = rounds
		if err := enc.Encode(run); err != nil {
			return i, fmt.Errorf("failed to encode run %s: %w", run.ID, err)
		}
	}
	return len(runs), nil
}
