package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/kenaz-distill/internal/apperr"
	"github.com/starford/kenaz-distill/internal/models"
	"github.com/starford/kenaz-distill/internal/noteservice"
	"github.com/starford/kenaz-distill/internal/parser"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes in the vault
//	@Tags			notes
//	@Produce		json
//	@Param			folder	query		string	false	"Folder to list"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	metas, err := h.svc.ListNotes(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidPath):
			writeError(w, http.StatusBadRequest, "invalid folder")
			return
		case errors.Is(err, os.ErrNotExist):
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if metas == nil {
		metas = []models.NoteMetadata{}
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: metas, Total: len(metas)})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	note, err := h.svc.ReadNote(r.Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound), errors.Is(err, os.ErrNotExist):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrInvalidPath):
			writeError(w, http.StatusBadRequest, "invalid path")
		default:
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	title, tags := parser.Describe(note)
	writeJSON(w, http.StatusOK, NoteDetail{
		Path:     note.Path,
		Filename: note.Filename,
		Title:    title,
		Tags:     tags,
		Content:  note.Content,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Case-insensitive substring search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query (empty matches every note)"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("q") {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	q := params.Get("q")
	notes := h.svc.Search(r.Context(), q)
	writeJSON(w, http.StatusOK, SearchResponse{Results: noteservice.Describe(notes, q)})
}

// Distill handles POST /api/distill.
//
//	@Summary		Answer a query from the matching notes
//	@Tags			distill
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DistillRequest	true	"Query"
//	@Success		200		{object}	DistillResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/distill [post]
func (h *Handler) Distill(w http.ResponseWriter, r *http.Request) {
	var req DistillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ans := h.svc.Ask(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, DistillResponse{
		Query:   ans.Query,
		Loaded:  ans.Loaded,
		Matches: noteservice.Describe(ans.Matches, req.Query),
		Answer:  ans.Text,
	})
}
