package api

import (
	"github.com/starford/kenaz-distill/internal/models"
	"github.com/starford/kenaz-distill/internal/noteservice"
)

// Match is a single search hit (aliased from the domain layer).
type Match = noteservice.Match

// NoteDetail is the response payload for a single note.
type NoteDetail struct {
	Path     string   `json:"path" example:"/vault/topics/apple.md" validate:"required"`
	Filename string   `json:"filename" example:"apple.md" validate:"required"`
	Title    string   `json:"title" example:"Apple"`
	Tags     []string `json:"tags"`
	Content  string   `json:"content" example:"apple pie" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.NoteMetadata `json:"notes" validate:"required"`
	Total int                   `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []Match `json:"results" validate:"required"`
}

// DistillRequest is the request body for distilling notes.
type DistillRequest struct {
	Query string `json:"query" example:"apple"`
}

// DistillResponse carries the distilled answer and the notes it was built from.
type DistillResponse struct {
	Query   string  `json:"query" example:"apple" validate:"required"`
	Loaded  int     `json:"loaded" example:"120" validate:"required"`
	Matches []Match `json:"matches" validate:"required"`
	Answer  string  `json:"answer" example:"Here is what I found in your notes: ..."`
}
