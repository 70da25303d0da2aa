package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDir creates a Dir inside a per-test temporary directory. The
// nested "qbique" component exercises NewDir's MkdirAll.
func setupTestDir(t *testing.T) *Dir {
	t.Helper()

	dir, err := NewDir(filepath.Join(t.TempDir(), "qbique"))
	if err != nil {
		t.Fatalf("create test dir: %v", err)
	}
	return dir
}

// writeRaw writes content verbatim to name inside dir, bypassing the repos.
func writeRaw(t *testing.T, dir *Dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(dir.path(name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
