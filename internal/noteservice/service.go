package noteservice

import (
	"context"

	"github.com/starford/kenaz-distill/internal/distiller"
	"github.com/starford/kenaz-distill/internal/models"
	"github.com/starford/kenaz-distill/internal/parser"
	"github.com/starford/kenaz-distill/internal/search"
	"github.com/starford/kenaz-distill/internal/vault"
)

// Match is a matched note decorated for display.
type Match struct {
	Path     string   `json:"path"`
	Filename string   `json:"filename"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Snippet  string   `json:"snippet"`
}

// Answer is the result of running the full pipeline for one query.
type Answer struct {
	Query   string        `json:"query"`
	Loaded  int           `json:"loaded"`
	Matches []models.Note `json:"-"`
	Text    string        `json:"answer"`
}

// Service runs the load → filter → distill pipeline.
type Service struct {
	repo      *vault.Repository
	distiller *distiller.Distiller
}

// NewService creates a new note service.
func NewService(repo *vault.Repository, d *distiller.Distiller) *Service {
	return &Service{repo: repo, distiller: d}
}

// Search loads the vault and returns the notes containing query.
func (s *Service) Search(_ context.Context, query string) []models.Note {
	return search.Search(s.repo.LoadAll(), query)
}

// Distill forwards notes to the distiller. Failures come back as text.
func (s *Service) Distill(ctx context.Context, query string, notes []models.Note) string {
	return s.distiller.Answer(ctx, query, notes)
}

// Ask runs the whole pipeline. When nothing matches, the distiller is not
// called and Text is left empty.
func (s *Service) Ask(ctx context.Context, query string) *Answer {
	notes := s.repo.LoadAll()
	matches := search.Search(notes, query)
	ans := &Answer{Query: query, Loaded: len(notes), Matches: matches}
	if len(matches) == 0 {
		return ans
	}
	ans.Text = s.distiller.Answer(ctx, query, matches)
	return ans
}

// ListNotes returns metadata for every note under dir.
func (s *Service) ListNotes(_ context.Context, dir string) ([]models.NoteMetadata, error) {
	return s.repo.List(dir)
}

// ReadNote loads one note by vault-relative path.
func (s *Service) ReadNote(_ context.Context, path string) (models.Note, error) {
	return s.repo.Read(path)
}

// Describe decorates notes with title, tags, and a snippet around query.
func Describe(notes []models.Note, query string) []Match {
	out := make([]Match, len(notes))
	for i, n := range notes {
		title, tags := parser.Describe(n)
		out[i] = Match{
			Path:     n.Path,
			Filename: n.Filename,
			Title:    title,
			Tags:     tags,
			Snippet:  search.Snippet(n.Content, query, 80),
		}
	}
	return out
}
