package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0700); err != nil {
		t.Fatal(err)
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"relative file", "runs.jsonl", filepath.Join(rootResolved, "runs.jsonl"), nil},
		{"relative subdirectory", "sub/runs.jsonl", filepath.Join(rootResolved, "sub", "runs.jsonl"), nil},
		{"missing subdirectory", "new/deeper/runs.jsonl", filepath.Join(rootResolved, "new", "deeper", "runs.jsonl"), nil},
		{"absolute inside", filepath.Join(root, "a.jsonl"), filepath.Join(rootResolved, "a.jsonl"), nil},
		{"dot-dot escape", "../escape.jsonl", "", ErrOutsideRoot},
		{"sneaky dot-dot", "sub/../../escape.jsonl", "", ErrOutsideRoot},
		{"absolute outside", filepath.Join(other, "x.jsonl"), "", ErrOutsideRoot},
		{"root itself", ".", "", ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve_RejectsEmptyAndNull(t *testing.T) {
	root := t.TempDir()
	if _, err := Resolve(root, ""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := Resolve(root, "a\x00b"); err == nil {
		t.Error("expected error for null byte")
	}
}

func TestResolve_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	_, err := Resolve(root, "escape/runs.jsonl")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Resolve() error = %v, want ErrOutsideRoot", err)
	}
}

func TestResolve_FinalComponentSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	victim := filepath.Join(outside, "victim.txt")
	if err := os.WriteFile(victim, []byte("keep"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	inRoot := filepath.Join(root, "real.jsonl")
	if err := os.WriteFile(inRoot, nil, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	links := map[string]string{
		"out.jsonl":      victim,
		"dangling.jsonl": filepath.Join(outside, "missing.txt"),
		"in.jsonl":       inRoot,
	}
	for name, dest := range links {
		if err := os.Symlink(dest, filepath.Join(root, name)); err != nil {
			t.Fatalf("failed to create symlink: %v", err)
		}
	}

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"out.jsonl", "", true},
		{"dangling.jsonl", "", true},
		{"in.jsonl", filepath.Join(rootResolved, "real.jsonl"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideRoot) {
					t.Errorf("Resolve() error = %v, want ErrOutsideRoot", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}

	data, err := os.ReadFile(victim)
	if err != nil || string(data) != "keep" {
		t.Errorf("outside file = %q, %v; want it untouched", data, err)
	}
}

func TestResolve_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "history", ExportsDir)
	got, err := Resolve(root, "runs.jsonl")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if filepath.Base(got) != "runs.jsonl" || filepath.Base(filepath.Dir(got)) != ExportsDir {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"runs.jsonl", "runs.jsonl"},
		{"/runs.jsonl", "runs.jsonl"},
		{"/home/user/.schelling/exports/runs.jsonl", ".../exports/runs.jsonl"},
	}
	for _, tt := range tests {
		if got := Redact(tt.path); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExportDir(t *testing.T) {
	if got, want := ExportDir("/data"), filepath.Join("/data", "exports"); got != want {
		t.Errorf("ExportDir() = %q, want %q", got, want)
	}
}
