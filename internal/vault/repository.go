// Package vault loads Markdown notes from a vault directory.
package vault

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/starford/kenaz-distill/internal/apperr"
	"github.com/starford/kenaz-distill/internal/models"
	"github.com/starford/kenaz-distill/internal/storage"
)

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Repository yields the notes stored under a vault root. It keeps no state
// between calls: every Notes or LoadAll call walks the tree again.
type Repository struct {
	store  storage.Provider
	logger *slog.Logger
}

// Open creates a Repository over the directory at root. It fails with an
// error wrapping apperr.ErrPathNotFound if root does not exist.
func Open(root string, logger *slog.Logger) (*Repository, error) {
	store, err := storage.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("vault: open: %w", err)
	}
	return New(store, logger), nil
}

// New creates a Repository over an existing storage provider.
func New(store storage.Provider, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// Root returns the absolute vault root.
func (r *Repository) Root() string { return r.store.Root() }

// Notes returns a lazy sequence over every note in the vault, in walk order.
// Files that cannot be read or decoded are logged and skipped.
func (r *Repository) Notes() iter.Seq[models.Note] {
	return func(yield func(models.Note) bool) {
		r.logger.Debug("vault: walking", slog.String("root", r.store.Root()))
		for meta, err := range r.store.Scan("") {
			if err != nil {
				r.skip(err)
				continue
			}
			note, err := r.load(meta.Path)
			if err != nil {
				r.skip(err)
				continue
			}
			if !yield(note) {
				return
			}
		}
	}
}

// LoadAll reads every note into memory.
func (r *Repository) LoadAll() []models.Note {
	notes := slices.Collect(r.Notes())
	if notes == nil {
		notes = []models.Note{}
	}
	return notes
}

// Read loads a single note by its vault-relative path.
func (r *Repository) Read(rel string) (models.Note, error) {
	if !storage.IsMarkdown(rel) {
		return models.Note{}, fmt.Errorf("vault: %s: %w", rel, apperr.ErrNotFound)
	}
	return r.load(rel)
}

// List returns metadata for every note under dir without reading content.
func (r *Repository) List(dir string) ([]models.NoteMetadata, error) {
	metas, err := r.store.List(dir)
	if err != nil && metas == nil {
		return nil, err
	}
	if err != nil {
		r.skip(err)
	}
	return metas, nil
}

func (r *Repository) load(rel string) (models.Note, error) {
	abs := filepath.Join(r.store.Root(), rel)
	data, err := r.store.Read(rel)
	if err != nil {
		return models.Note{}, &apperr.FileReadError{Path: abs, Err: err}
	}
	if !utf8.Valid(data) {
		return models.Note{}, &apperr.FileReadError{Path: abs, Err: errInvalidUTF8}
	}
	return models.Note{
		Path:     abs,
		Filename: filepath.Base(rel),
		Content:  string(data),
	}, nil
}

func (r *Repository) skip(err error) {
	path := ""
	var fre *apperr.FileReadError
	if errors.As(err, &fre) {
		path = fre.Path
	}
	r.logger.Warn("vault: skipping file",
		slog.String("path", path),
		slog.String("error", err.Error()))
}
