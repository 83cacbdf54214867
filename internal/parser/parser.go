// Package parser extracts frontmatter, titles, and tags from Markdown notes.
package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/kenaz-distill/internal/models"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of parsing a Markdown note.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Tags        []string
	Title       string
}

// Parse extracts frontmatter, body, and tags from Markdown content.
// Malformed frontmatter is treated as part of the body.
func Parse(content string) Result {
	fm, body := splitFrontmatter(content)
	return Result{
		Frontmatter: fm,
		Body:        body,
		Tags:        extractTags(body, fm),
		Title:       deriveTitle(fm, body),
	}
}

// Describe returns the display title and tags of a note. The title falls
// back to the filename without its extension.
func Describe(n models.Note) (title string, tags []string) {
	res := Parse(n.Content)
	title = res.Title
	if title == "" {
		title = strings.TrimSuffix(n.Filename, filepath.Ext(n.Filename))
	}
	tags = res.Tags
	if tags == nil {
		tags = []string{}
	}
	return title, tags
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data string) (map[string]any, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(data, "\n\r")

	if !strings.HasPrefix(trimmed, delim) {
		return nil, data
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, data
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, data
	}
	return fm, body
}

// extractTags collects tags from the frontmatter "tags" field (a YAML list or
// a comma-separated string) followed by inline #tags in the body.
func extractTags(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if s, ok := fm["title"].(string); ok && s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
