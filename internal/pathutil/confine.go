// Package pathutil keeps files written on behalf of MCP clients inside the
// export directory.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExportsDir is the export directory's name inside the history directory.
const ExportsDir = "exports"

// ErrOutsideRoot is returned when a path escapes its root directory.
var ErrOutsideRoot = errors.New("path is outside the export directory")

// ExportDir returns <historyDir>/exports.
func ExportDir(historyDir string) string {
	return filepath.Join(historyDir, ExportsDir)
}

// Resolve interprets name relative to root and returns the absolute path
// with symlinks resolved. The result must lie strictly inside root; absolute
// names are accepted only if they do. The target itself need not exist.
func Resolve(root, name string) (string, error) {
	if name == "" {
		return "", errors.New("path is empty")
	}
	if strings.ContainsRune(name, '\x00') {
		return "", errors.New("path contains null byte")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving export directory: %w", err)
	}
	rootResolved, err := resolveExisting(rootAbs)
	if err != nil {
		return "", err
	}

	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(rootAbs, target)
	}
	target = filepath.Clean(target)

	parent, err := resolveExisting(filepath.Dir(target))
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(parent, filepath.Base(target))

	// An existing link as the final component is followed by the write, so
	// its target must be inside root too. Dangling links are refused.
	if info, err := os.Lstat(resolved); err == nil && info.Mode()&os.ModeSymlink != 0 {
		dest, err := filepath.EvalSymlinks(resolved)
		if err != nil {
			return "", fmt.Errorf("%w: %s is a dangling link", ErrOutsideRoot, Redact(resolved))
		}
		resolved = dest
	}

	if !inside(resolved, rootResolved) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, Redact(resolved))
	}
	return resolved, nil
}

// Redact shortens a path to .../<parent>/<base> for error messages.
func Redact(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// resolveExisting resolves symlinks on the deepest existing ancestor of dir
// and re-appends the missing tail.
func resolveExisting(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve path: %s", Redact(dir))
	}
	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

// inside reports whether path is a strict descendant of base.
func inside(path, base string) bool {
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
