// Package search filters notes by case-insensitive substring match.
//
// There is no index and no ranking: a note either contains the query or it
// does not, and results keep the order they were given in. An empty query
// matches every note.
package search

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/starford/kenaz-distill/internal/models"
)

// matches reports whether content contains q; q must already be lowercase.
func matches(content, q string) bool {
	return strings.Contains(strings.ToLower(content), q)
}

// Search returns the notes whose content contains query, in input order.
// It never returns nil.
func Search(notes []models.Note, query string) []models.Note {
	q := strings.ToLower(query)
	out := []models.Note{}
	for _, n := range notes {
		if matches(n.Content, q) {
			out = append(out, n)
		}
	}
	return out
}

// Filter is the streaming form of Search.
func Filter(notes iter.Seq[models.Note], query string) iter.Seq[models.Note] {
	q := strings.ToLower(query)
	return func(yield func(models.Note) bool) {
		for n := range notes {
			if !matches(n.Content, q) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Snippet returns up to radius runes of context on each side of the first
// match of query in content. Without a match it returns the leading
// 2*radius runes.
func Snippet(content, query string, radius int) string {
	if radius <= 0 {
		radius = 80
	}
	runes := []rune(content)
	lowered := []rune(strings.ToLower(content))
	start, width := 0, 2*radius
	if query != "" && len(lowered) == len(runes) {
		if idx := strings.Index(string(lowered), strings.ToLower(query)); idx >= 0 {
			start = utf8.RuneCountInString(string(lowered)[:idx]) - radius
			width += utf8.RuneCountInString(query)
		}
	}
	start = max(start, 0)
	end := min(start+width, len(runes))

	out := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}
