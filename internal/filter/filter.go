// Package filter narrows an event list by date range, location and
// weekday for the list command and announcement digests.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
)

const dateLayout = "2006-01-02"

// Filter represents event filtering criteria. A zero filter matches
// every event.
type Filter struct {
	// Date range, inclusive on both ends.
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Locations match case-insensitively as substrings of the event
	// location. Any match passes.
	Locations []string `json:"locations,omitempty"`

	// WeekendsOnly keeps only Saturday and Sunday events.
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates an empty filter that matches all events.
func NewFilter() *Filter {
	return &Filter{
		Locations: []string{},
	}
}

// IsEmpty reports whether the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Locations) == 0 &&
		!f.WeekendsOnly
}

// Matches checks whether an event passes all active criteria. Events
// with unparseable dates pass the date-based checks.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	eventDate := parseEventDate(evt.Date)

	if f.DateFrom != nil && eventDate != nil {
		if eventDate.Before(*f.DateFrom) {
			return false
		}
	}
	if f.DateTo != nil && eventDate != nil {
		if eventDate.After(*f.DateTo) {
			return false
		}
	}

	if f.WeekendsOnly && eventDate != nil {
		weekday := eventDate.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	if len(f.Locations) > 0 {
		matched := false
		locationLower := strings.ToLower(evt.Location)
		for _, loc := range f.Locations {
			if strings.Contains(locationLower, strings.ToLower(loc)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns only the events that match. An empty filter returns
// the original slice unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "no active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("from %s", f.DateFrom.Format("02.01.2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("to %s", f.DateTo.Format("02.01.2006")))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("locations: %s", strings.Join(f.Locations, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "weekends only")
	}

	return strings.Join(parts, " | ")
}

// ParseDate parses a filter boundary date in either the canonical
// YYYY-MM-DD form or the display DD.MM.YYYY form.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or DD.MM.YYYY)", s)
}

func parseEventDate(dateStr string) *time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return nil
	}
	return &t
}
