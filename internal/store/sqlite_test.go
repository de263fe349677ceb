package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSQLiteRunStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")

	s, err := NewSQLiteRunStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	defer s.Close()

	if s.Path() != filepath.Join(dir, DBFile) {
		t.Errorf("Path() = %q, want %q", s.Path(), filepath.Join(dir, DBFile))
	}
	if _, err := os.Stat(s.Path()); os.IsNotExist(err) {
		t.Error("schelling.db was not created")
	}
}

func TestSQLiteRunStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewSQLiteRunStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	if _, err := s.RecordRun(ctx, sampleRun("persisted", time.Now())); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteRunStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetRun(ctx, "persisted")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got == nil {
		t.Fatal("run did not survive reopening the store")
	}
	if len(got.Rounds) != 2 {
		t.Errorf("len(Rounds) = %d, want 2", len(got.Rounds))
	}
}

func TestSQLiteRunStore_SchemaVersion(t *testing.T) {
	s, err := NewSQLiteRunStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	defer s.Close()

	version, err := getSchemaVersion(context.Background(), s.db)
	if err != nil {
		t.Fatalf("getSchemaVersion() error = %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}
}

func TestSQLiteRunStore_RejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteRunStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	if _, err := s.db.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion+1); err != nil {
		t.Fatalf("bumping schema version: %v", err)
	}
	s.Close()

	if _, err := NewSQLiteRunStore(dir); err == nil {
		t.Error("expected error opening a database with a newer schema")
	}
}
