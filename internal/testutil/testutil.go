// Package testutil provides shared test helpers for setting up vaults.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/kenaz-distill/internal/storage"
)

// WriteVault creates a temporary vault directory populated with files
// (relative path → content) and returns its path.
func WriteVault(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestVault creates a populated temporary vault with a storage.FS over it.
func TestVault(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := WriteVault(t, files)
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
