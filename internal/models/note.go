// Package models defines the domain types for the note distiller.
package models

import "time"

// Note is one Markdown file loaded from the vault.
// Notes are values: they are never mutated after loading.
type Note struct {
	Path     string `json:"path"`     // absolute location on disk
	Filename string `json:"filename"` // base name, e.g. "ideas.md"
	Content  string `json:"-"`
}

// NoteMetadata is produced by the storage walk before a file is read.
type NoteMetadata struct {
	Path      string    `json:"path"` // relative to the vault root
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
