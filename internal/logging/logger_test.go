package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/schelling/internal/simulation"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase INFO", "INFO", slog.LevelInfo},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"mixed case Debug", "Debug", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"info level", "info"},
		{"debug level", "debug"},
		{"trace level", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)
			if logger == nil {
				t.Fatal("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
		logAtInfo  bool
	}{
		{"info filters debug", "info", false, true},
		{"debug passes debug", "debug", true, true},
		{"trace passes debug", "trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			hasDebug := strings.Contains(buf.String(), "debug message")
			if hasDebug != tt.logAtDebug {
				t.Errorf("debug message visible = %v, want %v (buf: %q)", hasDebug, tt.logAtDebug, buf.String())
			}

			buf.Reset()
			logger.Info("info message")
			hasInfo := strings.Contains(buf.String(), "info message")
			if hasInfo != tt.logAtInfo {
				t.Errorf("info message visible = %v, want %v (buf: %q)", hasInfo, tt.logAtInfo, buf.String())
			}
		})
	}
}

func TestLevelTrace(t *testing.T) {
	// Trace should be below debug (more verbose)
	if LevelTrace >= slog.LevelDebug {
		t.Errorf("LevelTrace (%d) should be less than LevelDebug (%d)", LevelTrace, slog.LevelDebug)
	}
}

func TestNewRoundLogger_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	rl := NewRoundLogger(dir, "info")

	// At info level, round logger should be nil
	if rl != nil {
		t.Error("expected nil RoundLogger at info level")
	}

	// Nil logger should still be safe to use
	rl.LogRound("run", 1, simulation.RoundStats{Round: 1})

	path := filepath.Join(dir, RoundsFile)
	if _, err := os.Stat(path); err == nil {
		t.Error("rounds.jsonl should not exist at info level")
	}
}

func TestNewRoundLogger_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	rl := NewRoundLogger(dir, "debug")
	defer rl.Close()

	rl.LogRound("run-1", 42, simulation.RoundStats{
		Round:           3,
		Population:      2800,
		Dissatisfied:    700,
		Dissatisfaction: 0.25,
		MeanSimilarity:  0.71,
	})

	data, err := os.ReadFile(filepath.Join(dir, RoundsFile))
	if err != nil {
		t.Fatalf("failed to read rounds.jsonl: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("failed to parse JSONL entry: %v", err)
	}

	if entry["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", entry["run_id"])
	}
	if entry["seed"] != float64(42) {
		t.Errorf("seed = %v, want 42", entry["seed"])
	}
	if entry["round"] != float64(3) {
		t.Errorf("round = %v, want 3", entry["round"])
	}
	if entry["dissatisfied"] != float64(700) {
		t.Errorf("dissatisfied = %v, want 700", entry["dissatisfied"])
	}
	if entry["mean_similarity"] != 0.71 {
		t.Errorf("mean_similarity = %v, want 0.71", entry["mean_similarity"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected 'time' field in round log entry")
	}
}

func TestNewRoundLogger_MultipleWrites(t *testing.T) {
	dir := t.TempDir()
	rl := NewRoundLogger(dir, "trace")
	defer rl.Close()

	rl.LogRound("", 1, simulation.RoundStats{Round: 1})
	rl.LogRound("", 1, simulation.RoundStats{Round: 2})

	data, err := os.ReadFile(filepath.Join(dir, RoundsFile))
	if err != nil {
		t.Fatalf("failed to read rounds.jsonl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), string(data))
	}

	var first, second RoundEvent
	json.Unmarshal([]byte(lines[0]), &first)
	json.Unmarshal([]byte(lines[1]), &second)

	if first.Round != 1 || second.Round != 2 {
		t.Errorf("rounds = %d, %d, want 1, 2", first.Round, second.Round)
	}
	if strings.Contains(lines[0], "run_id") {
		t.Errorf("empty run_id should be omitted: %s", lines[0])
	}
}

func TestRoundLogger_NilSafety(t *testing.T) {
	// nil RoundLogger should not panic
	var rl *RoundLogger
	rl.LogRound("run", 1, simulation.RoundStats{})
	rl.Close()
}

func TestRoundLogger_LogAfterClose(t *testing.T) {
	dir := t.TempDir()
	rl := NewRoundLogger(dir, "debug")

	rl.LogRound("run", 1, simulation.RoundStats{Round: 1})
	rl.Close()

	// Should be a no-op, not panic or error
	rl.LogRound("run", 1, simulation.RoundStats{Round: 2})

	data, err := os.ReadFile(filepath.Join(dir, RoundsFile))
	if err != nil {
		t.Fatalf("failed to read rounds.jsonl: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 1 {
		t.Errorf("expected 1 line after close, got %d", n)
	}
}

func TestNewRoundLogger_CreatesDir(t *testing.T) {
	base := t.TempDir()
	nestedDir := filepath.Join(base, "sub", "dir")

	rl := NewRoundLogger(nestedDir, "debug")
	if rl == nil {
		t.Fatal("expected non-nil RoundLogger when dir needs creation")
	}
	defer rl.Close()

	rl.LogRound("run", 1, simulation.RoundStats{Round: 1})

	info, err := os.Stat(filepath.Join(nestedDir, RoundsFile))
	if err != nil {
		t.Fatalf("rounds.jsonl should exist after dir creation: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "round detail")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}
