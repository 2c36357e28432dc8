package lists

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// entrySource implements fuzzy.Source over lowercased entry titles.
type entrySource struct {
	entries []Entry
	lower   []string
}

func newEntrySource(entries []Entry) *entrySource {
	lower := make([]string, len(entries))
	for i, e := range entries {
		lower[i] = strings.ToLower(e.Title)
	}
	return &entrySource{entries: entries, lower: lower}
}

func (s *entrySource) String(i int) string { return s.lower[i] }
func (s *entrySource) Len() int            { return len(s.entries) }

// Filter returns the entries whose titles fuzzy-match query, best match first.
// An empty query returns entries unchanged.
func Filter(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	src := newEntrySource(entries)
	matches := fuzzy.FindFrom(strings.ToLower(query), src)
	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}
