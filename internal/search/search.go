// Package search filters the event feed by free-text queries typed in
// either Latin or Cyrillic script. Queries are expanded into mechanical
// transliteration variants and matched as case-insensitive substrings of
// "title location"; results keep feed order and are not ranked.
package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/meowafisha/meowmap/internal/event"
)

// PreviewLimit bounds the result set shown for a blank query.
const PreviewLimit = 6

// Search filters events by query. A blank query yields a bounded preview of
// the upcoming bucket (the full set when upcoming is empty). An empty result
// is a valid outcome, distinct from "not yet searched" at the caller.
func Search(events, upcoming []*event.Event, query string) []*event.Event {
	query = strings.TrimSpace(query)
	if query == "" {
		pool := upcoming
		if len(pool) == 0 {
			pool = events
		}
		if len(pool) > PreviewLimit {
			pool = pool[:PreviewLimit]
		}
		return append([]*event.Event(nil), pool...)
	}

	variants := Variants(normalizeQuery(query))

	matched := make([]*event.Event, 0)
	for _, e := range events {
		haystack := strings.ToLower(e.Title + " " + e.Location)
		for _, v := range variants {
			if strings.Contains(haystack, v) {
				matched = append(matched, e)
				break
			}
		}
	}

	return matched
}

// normalizeQuery lowercases and NFC-normalizes a query so composed and
// decomposed Cyrillic input (ё typed as е + combining diaeresis) match the
// same way.
func normalizeQuery(query string) string {
	return strings.ToLower(norm.NFC.String(query))
}
