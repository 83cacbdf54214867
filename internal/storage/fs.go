package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/kenaz-distill/internal/apperr"
	"github.com/starford/kenaz-distill/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to vault directory
}

var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %w: %s", apperr.ErrPathNotFound, abs)
		}
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %w: not a directory: %s", apperr.ErrPathNotFound, abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute vault root.
func (f *FS) Root() string { return f.root }

// IsMarkdown reports whether name has a ".md" extension, ignoring case.
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: %w: absolute paths not allowed: %s", apperr.ErrInvalidPath, rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: %w: escapes vault root: %s", apperr.ErrInvalidPath, rel)
	}
	return abs, nil
}

// Scan walks dir (relative to root) and yields metadata for every .md file.
// Each call starts a fresh walk. Unreadable directories and entries are
// yielded as *apperr.FileReadError and skipped.
func (f *FS) Scan(dir string) iter.Seq2[models.NoteMetadata, error] {
	return func(yield func(models.NoteMetadata, error) bool) {
		base, err := f.safePath(dir)
		if err != nil {
			yield(models.NoteMetadata{}, err)
			return
		}
		_ = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if !yield(models.NoteMetadata{}, &apperr.FileReadError{Path: p, Err: walkErr}) {
					return filepath.SkipAll
				}
				return nil
			}
			if d.IsDir() || !IsMarkdown(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				if !yield(models.NoteMetadata{}, &apperr.FileReadError{Path: p, Err: err}) {
					return filepath.SkipAll
				}
				return nil
			}
			rel, _ := filepath.Rel(f.root, p)
			meta := models.NoteMetadata{
				Path:      rel,
				Filename:  d.Name(),
				Size:      info.Size(),
				UpdatedAt: info.ModTime(),
			}
			if !yield(meta, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// List returns metadata for every .md file under dir. Entries that could not
// be inspected are reported in the joined error; the remaining metadata is
// still returned.
func (f *FS) List(dir string) ([]models.NoteMetadata, error) {
	var (
		out  []models.NoteMetadata
		errs []error
	)
	for meta, err := range f.Scan(dir) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, meta)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("storage: list: %w", errors.Join(errs...))
	}
	return out, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}
