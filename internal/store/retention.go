package store

import (
	"context"
	"fmt"
	"time"
)

// RetentionPolicy decides which runs to keep. Runs are passed newest first.
type RetentionPolicy interface {
	Keep(runs []RunRecord) []RunRecord
}

// CountPolicy keeps the MaxRuns most recent runs.
type CountPolicy struct {
	MaxRuns int
}

// Keep returns the first MaxRuns runs.
func (p CountPolicy) Keep(runs []RunRecord) []RunRecord {
	if len(runs) <= p.MaxRuns {
		return runs
	}
	return runs[:max(p.MaxRuns, 0)]
}

// AgePolicy keeps runs started within MaxAge of Now.
type AgePolicy struct {
	MaxAge time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Keep returns the runs started after the cutoff.
func (p AgePolicy) Keep(runs []RunRecord) []RunRecord {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	cutoff := now().Add(-p.MaxAge)

	var keep []RunRecord
	for _, r := range runs {
		if r.StartedAt.After(cutoff) {
			keep = append(keep, r)
		}
	}
	return keep
}

// AllPolicy keeps a run only if every sub-policy keeps it. With no
// policies every run is kept.
type AllPolicy []RetentionPolicy

// Keep returns the intersection of what each policy keeps.
func (p AllPolicy) Keep(runs []RunRecord) []RunRecord {
	kept := runs
	for _, policy := range p {
		kept = policy.Keep(kept)
	}
	return kept
}

// Prune deletes every run the policy does not keep and returns the number
// deleted.
func Prune(ctx context.Context, s RunStore, policy RetentionPolicy) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}

	keep := make(map[string]bool)
	for _, r := range policy.Keep(runs) {
		keep[r.ID] = true
	}

	deleted := 0
	for _, r := range runs {
		if keep[r.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		ok, err := s.DeleteRun(ctx, r.ID)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}
