package event

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Event represents one dated MeowAfisha event
type Event struct {
	ID       string   `json:"id,omitempty"`
	Date     string   `json:"date"` // YYYY-MM-DD
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Text     string   `json:"text,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// GenerateID creates a deterministic short ID for an event.
// It is a djb2-style hash (seed 5381) over the UTF-16 code units of
// "date|title|location", rendered as lowercase hex with an "e" prefix so the
// result is never purely numeric. Coordinates are deliberately excluded:
// geocode backfill must not change an already shared event link.
func GenerateID(date, title, location string) string {
	s := date + "|" + title + "|" + location
	h := uint32(5381)
	for _, cu := range utf16.Encode([]rune(s)) {
		h = ((h << 5) + h) + uint32(cu)
	}
	return fmt.Sprintf("e%x", h)
}

// Key returns the dedup key used when merging feeds across fetch runs.
func (e *Event) Key() string {
	return e.Date + "|" + e.Title + "|" + e.Location
}

// HasCoords reports whether both coordinates are present.
func (e *Event) HasCoords() bool {
	return e.Lat != nil && e.Lon != nil
}

// SetCoords fills in both coordinates.
func (e *Event) SetCoords(lat, lon float64) {
	e.Lat = &lat
	e.Lon = &lon
}

// NewEvent creates a new Event with its ID populated.
func NewEvent(date, title, location, text string) *Event {
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)
	return &Event{
		ID:       GenerateID(date, title, location),
		Date:     date,
		Title:    title,
		Location: location,
		Text:     text,
	}
}

// AssignIDs populates the ID of every event in place. Called once right
// after a feed is loaded; IDs are stable for a given (date, title, location).
func AssignIDs(events []*Event) {
	for _, e := range events {
		e.ID = GenerateID(e.Date, e.Title, e.Location)
	}
}
