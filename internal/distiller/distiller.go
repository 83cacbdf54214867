// Package distiller turns a query and its matching notes into a single
// completion request and returns the model's answer.
package distiller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/kenaz-distill/internal/apperr"
	"github.com/starford/kenaz-distill/internal/llm"
	"github.com/starford/kenaz-distill/internal/llm/gpt"
	"github.com/starford/kenaz-distill/internal/models"
)

// MaxNoteChars is the per-note cap, in characters, on content sent to the
// provider.
const MaxNoteChars = 3000

const (
	// NoNotesMessage is returned when there is nothing to distill.
	NoNotesMessage = "No notes found to distill."
	// NoProviderMessage is what Answer returns when no API key is configured.
	NoProviderMessage = "Error: No API client initialized (missing key?)."

	systemInstruction = "You are a helpful assistant."
	leadIn            = "Here is what I found in your notes:"
)

// Config is the explicit provider configuration. An empty APIKey leaves the
// distiller disabled.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Option configures a Distiller.
type Option func(*Distiller)

// WithProvider overrides the provider built from Config. The distiller is
// enabled whenever a provider is set, regardless of Config.APIKey.
func WithProvider(p llm.Provider) Option {
	return func(d *Distiller) {
		d.provider = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Distiller) {
		d.logger = l
	}
}

// Distiller is stateless between calls: a failed request does not change
// how the next one is handled.
type Distiller struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// New creates a Distiller. Without an API key (and no WithProvider option)
// every Distill call fails with apperr.ErrNoProvider.
func New(cfg Config, opts ...Option) *Distiller {
	d := &Distiller{model: cfg.Model, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if d.provider == nil && cfg.APIKey != "" {
		client, err := gpt.NewClient(cfg.APIKey, cfg.BaseURL)
		if err != nil {
			d.logger.Warn("distiller: provider init failed", slog.String("error", err.Error()))
		} else {
			d.provider = client
		}
	}
	if d.provider == nil {
		d.logger.Warn("distiller: no API key configured, distillation disabled")
	}
	return d
}

// Enabled reports whether a provider is configured.
func (d *Distiller) Enabled() bool { return d.provider != nil }

// Model returns the model identifier sent with each request.
func (d *Distiller) Model() string { return d.model }

// Distill asks the provider to answer query using only notes. With no notes
// it returns NoNotesMessage without contacting the provider. Errors wrap
// apperr.ErrNoProvider or apperr.ErrProviderRequest.
func (d *Distiller) Distill(ctx context.Context, query string, notes []models.Note) (string, error) {
	if len(notes) == 0 {
		return NoNotesMessage, nil
	}
	if d.provider == nil {
		return "", fmt.Errorf("distiller: %w", apperr.ErrNoProvider)
	}

	d.logger.Debug("distiller: sending request",
		slog.String("model", d.model),
		slog.Int("notes", len(notes)))

	resp, err := d.provider.Complete(ctx, llm.Request{
		Model:  d.model,
		System: systemInstruction,
		Prompt: BuildPrompt(query, notes),
	})
	if err != nil {
		return "", fmt.Errorf("distiller: %w: %w", apperr.ErrProviderRequest, err)
	}
	return resp.Content, nil
}

// Answer is Distill for callers that only display text: failures come back
// as a descriptive message instead of an error.
func (d *Distiller) Answer(ctx context.Context, query string, notes []models.Note) string {
	text, err := d.Distill(ctx, query, notes)
	switch {
	case err == nil:
		return text
	case errors.Is(err, apperr.ErrNoProvider):
		return NoProviderMessage
	}
	d.logger.Error("distiller: request failed", slog.String("error", err.Error()))
	return "Error distilling notes: " + err.Error()
}

// BuildContext concatenates one segment per note: a header naming the file,
// at most MaxNoteChars characters of content, and a blank line.
func BuildContext(notes []models.Note) string {
	var b strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&b, "--- FILE: %s ---\n", n.Filename)
		b.WriteString(truncate(n.Content, MaxNoteChars))
		b.WriteString("\n\n")
	}
	return b.String()
}

// BuildPrompt wraps the note context and query in the instruction template.
func BuildPrompt(query string, notes []models.Note) string {
	var b strings.Builder
	b.WriteString("You are a research assistant.\n")
	fmt.Fprintf(&b, "User Query: \"%s\"\n\n", query)
	b.WriteString("Here are some relevant notes from the user's vault:\n\n")
	b.WriteString(BuildContext(notes))
	b.WriteString("Based ONLY on these notes, provide a concise summary or answer to the query.\n")
	fmt.Fprintf(&b, "Start with \"%s\"\n", leadIn)
	return b.String()
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
