// Package backlink finds the knowledge rows a generated answer mentions and
// turns their links into sources.
package backlink

import (
	"strings"

	"github.com/guidechat/backend/pkg/knowledge"
)

const linkScheme = "http"

// Source is a citation attached to an answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Extract walks rows in order and, for every row whose name matcher finds in
// text, adds at most one source per distinct name: the Website link when it
// is usable, otherwise the Social_Media link. A nil matcher means
// ContainsMatcher. The result is never nil.
func Extract(text string, rows []knowledge.Row, matcher Matcher) []Source {
	if matcher == nil {
		matcher = ContainsMatcher{}
	}

	sources := make([]Source, 0)
	found := make(map[string]struct{})

	add := func(name, kind, uri string) {
		if !strings.HasPrefix(uri, linkScheme) {
			return
		}
		if _, ok := found[name]; ok {
			return
		}
		sources = append(sources, Source{Title: name + " - " + kind, URI: uri})
		found[name] = struct{}{}
	}

	for _, row := range rows {
		name := row.Name()
		if name == "" || !matcher.Matches(text, name) {
			continue
		}
		add(name, "Website", row.Website())
		add(name, "Social Media", row.SocialMedia())
	}

	return sources
}
