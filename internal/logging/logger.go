// Package logging provides leveled logging and round tracing for schelling.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A RoundLogger for per-round JSONL traces (~/.schelling/rounds.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/schelling/internal/simulation"
)

// LevelTrace is a custom slog level below Debug.
// At this level every relocation round is also written to stderr.
const LevelTrace = slog.LevelDebug - 4

// RoundsFile is the name of the round trace file inside the data directory.
const RoundsFile = "rounds.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RoundEvent is one line of the round trace.
type RoundEvent struct {
	Time  string `json:"time"`
	RunID string `json:"run_id,omitempty"`
	Seed  uint64 `json:"seed"`
	simulation.RoundStats
}

// RoundLogger appends RoundEvents to a JSONL file.
// It is safe for concurrent use. A nil RoundLogger is safe to use;
// all methods are no-ops on nil receiver.
type RoundLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewRoundLogger creates a round logger writing to dir/rounds.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened.
func NewRoundLogger(dir string, level string) *RoundLogger {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, RoundsFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &RoundLogger{file: f}
}

// LogRound writes stats for one round of the given run.
// Safe to call on nil receiver.
func (rl *RoundLogger) LogRound(runID string, seed uint64, stats simulation.RoundStats) {
	if rl == nil {
		return
	}

	event := RoundEvent{
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		RunID:      runID,
		Seed:       seed,
		RoundStats: stats,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.file == nil {
		return
	}
	_, _ = rl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (rl *RoundLogger) Close() {
	if rl == nil {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.file != nil {
		rl.file.Close()
		rl.file = nil
	}
}
