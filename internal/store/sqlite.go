package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/simulation"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFile is the name of the history database inside the data directory.
const DBFile = "schelling.db"

// timeFormat has fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteRunStore implements RunStore using SQLite for persistence.
type SQLiteRunStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteRunStore opens (or creates) dir/schelling.db.
func NewSQLiteRunStore(dir string) (*SQLiteRunStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteRunStore) Path() string { return s.dbPath }

// RecordRun stores run and its rounds in a single transaction.
func (s *SQLiteRunStore) RecordRun(ctx context.Context, run RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, sum := run.Params, run.Summary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, finished_at,
			grid_size, count_a, count_b, threshold, rounds, mode, seed,
			population, dissatisfied, dissatisfaction, mean_similarity, similarity_stddev
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		p.Size, p.CountA, p.CountB, p.Threshold, p.Rounds, modeOrDefault(p.Mode).String(),
		strconv.FormatUint(run.Seed, 10),
		sum.Population, sum.Dissatisfied, sum.Dissatisfaction, sum.MeanSimilarity, sum.SimilarityStdDev,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_rounds (
			run_id, round, population, dissatisfied, candidates,
			dissatisfaction, mean_similarity, similarity_stddev
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare round insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range run.Rounds {
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.Round, r.Population, r.Dissatisfied, r.Candidates,
			r.Dissatisfaction, r.MeanSimilarity, r.SimilarityStdDev,
		); err != nil {
			return "", fmt.Errorf("failed to insert round %d: %w", r.Round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `
	id, started_at, finished_at,
	grid_size, count_a, count_b, threshold, rounds, mode, seed,
	population, dissatisfied, dissatisfaction, mean_similarity, similarity_stddev`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		run               RunRecord
		started, finished string
		mode, seed        string
	)
	err := row.Scan(
		&run.ID, &started, &finished,
		&run.Params.Size, &run.Params.CountA, &run.Params.CountB, &run.Params.Threshold,
		&run.Params.Rounds, &mode, &seed,
		&run.Summary.Population, &run.Summary.Dissatisfied, &run.Summary.Dissatisfaction,
		&run.Summary.MeanSimilarity, &run.Summary.SimilarityStdDev,
	)
	if err != nil {
		return RunRecord{}, err
	}

	run.Params.Mode = constants.Mode(mode)
	if run.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return RunRecord{}, fmt.Errorf("parsing started_at %q: %w", started, err)
	}
	if run.FinishedAt, err = time.Parse(timeFormat, finished); err != nil {
		return RunRecord{}, fmt.Errorf("parsing finished_at %q: %w", finished, err)
	}
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return RunRecord{}, fmt.Errorf("parsing seed %q: %w", seed, err)
	}
	return run, nil
}

// GetRun returns the run with its rounds. Returns nil if not found.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	run.Rounds, err = s.queryRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns runs newest first, without rounds.
func (s *SQLiteRunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Rounds returns the round statistics of a run in round order.
func (s *SQLiteRunStore) Rounds(ctx context.Context, id string) ([]simulation.RoundStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRounds(ctx, id)
}

func (s *SQLiteRunStore) queryRounds(ctx context.Context, id string) ([]simulation.RoundStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, population, dissatisfied, candidates,
		       dissatisfaction, mean_similarity, similarity_stddev
		FROM run_rounds WHERE run_id = ? ORDER BY round`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for %s: %w", id, err)
	}
	defer rows.Close()

	rounds := make([]simulation.RoundStats, 0)
	for rows.Next() {
		var r simulation.RoundStats
		if err := rows.Scan(&r.Round, &r.Population, &r.Dissatisfied, &r.Candidates,
			&r.Dissatisfaction, &r.MeanSimilarity, &r.SimilarityStdDev); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	return rounds, nil
}

// DeleteRun removes a run; its rounds go with it via ON DELETE CASCADE.
func (s *SQLiteRunStore) DeleteRun(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return n > 0, nil
}

// Close closes the database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func modeOrDefault(m constants.Mode) constants.Mode {
	if m == "" {
		return constants.ModeSwap
	}
	return m
}
