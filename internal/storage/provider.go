// Package storage defines the read-only vault file-system abstraction.
package storage

import (
	"iter"

	"github.com/starford/kenaz-distill/internal/models"
)

// Provider is the interface for vault file operations.
type Provider interface {
	// Root returns the absolute vault root.
	Root() string
	// Scan lazily yields metadata for every Markdown file under dir (relative
	// to vault root). Per-entry failures are yielded as errors and the walk
	// continues.
	Scan(dir string) iter.Seq2[models.NoteMetadata, error]
	// List collects Scan into a slice.
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
}
