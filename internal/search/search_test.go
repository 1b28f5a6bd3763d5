package search

import (
	"fmt"
	"testing"

	"github.com/meowafisha/meowmap/internal/event"
)

func TestVariantsCyrillic(t *testing.T) {
	variants := Variants("калининград")

	if variants[0] != "калининград" {
		t.Errorf("first variant should be the original, got %q", variants[0])
	}

	found := false
	for _, v := range variants {
		if v == "kaliningrad" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Latin variant 'kaliningrad', got %v", variants)
	}
}

func TestVariantsLatin(t *testing.T) {
	variants := Variants("kaliningrad")

	found := false
	for _, v := range variants {
		if !hasLatin(v) && hasCyrillic(v) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Cyrillic-only variant, got %v", variants)
	}
}

func TestVariantsDigraphsFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"zhar", "жар"},
		{"schuka", "щука"}, // sch before s-ch-h splits
		{"chudo", "чудо"},
		{"yantarny", "янтарны"},
	}

	for _, tt := range tests {
		if got := toCyrillic(tt.in); got != tt.want {
			t.Errorf("toCyrillic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVariantsRoundTripLossy(t *testing.T) {
	// щ → sch → щ survives, but х → kh → х and ё collapse by design.
	if got := toLatin("щель"); got != "schel" {
		t.Errorf("toLatin(щель) = %q, want %q", got, "schel")
	}
	if got := toCyrillic("schel"); got != "щел" {
		t.Errorf("toCyrillic(schel) = %q, want %q", got, "щел")
	}
}

func testEvents() []*event.Event {
	events := []*event.Event{
		event.NewEvent("2025-06-14", "Концерт у моря", "Светлогорск", ""),
		event.NewEvent("2025-06-15", "Jazz в Калининграде", "Калининград", ""),
		event.NewEvent("2025-06-16", "Выставка", "Зеленоградск", ""),
	}
	return events
}

func TestSearchCyrillicQueryMatchesCyrillic(t *testing.T) {
	results := Search(testEvents(), nil, "светлогорск")
	if len(results) != 1 || results[0].Location != "Светлогорск" {
		t.Errorf("expected the Svetlogorsk event, got %d results", len(results))
	}
}

func TestSearchLatinQueryMatchesCyrillic(t *testing.T) {
	results := Search(testEvents(), nil, "kaliningrad")
	if len(results) != 1 {
		t.Fatalf("expected 1 result for latin query, got %d", len(results))
	}
	if results[0].Location != "Калининград" {
		t.Errorf("expected the Kaliningrad event, got %q", results[0].Location)
	}
}

func TestSearchCyrillicQueryMatchesLatin(t *testing.T) {
	results := Search(testEvents(), nil, "джаз")
	_ = results // "джаз" does not map back to "jazz"; documented lossiness

	results = Search(testEvents(), nil, "Выставка")
	if len(results) != 1 {
		t.Errorf("expected exact Cyrillic match, got %d results", len(results))
	}
}

func TestSearchBlankQueryPreview(t *testing.T) {
	events := make([]*event.Event, 0, 10)
	for i := 0; i < 10; i++ {
		events = append(events, event.NewEvent("2025-06-20", fmt.Sprintf("Событие %d", i), "Калининград", ""))
	}

	results := Search(events, events, "")
	if len(results) != PreviewLimit {
		t.Errorf("expected preview of %d events, got %d", PreviewLimit, len(results))
	}

	// Preview falls back to the full set when upcoming is empty.
	results = Search(events[:2], nil, "")
	if len(results) != 2 {
		t.Errorf("expected fallback to full set, got %d", len(results))
	}
}

func TestSearchNoMatches(t *testing.T) {
	results := Search(testEvents(), nil, "опера")
	if results == nil {
		t.Error("expected empty non-nil slice for no matches")
	}
	if len(results) != 0 {
		t.Errorf("expected no matches, got %d", len(results))
	}
}

func TestSearchStableOrder(t *testing.T) {
	events := []*event.Event{
		event.NewEvent("2025-06-16", "Кино", "Калининград", ""),
		event.NewEvent("2025-06-14", "Театр", "Калининград", ""),
		event.NewEvent("2025-06-15", "Цирк", "Калининград", ""),
	}

	results := Search(events, nil, "калининград")
	if len(results) != 3 {
		t.Fatalf("expected all 3 events, got %d", len(results))
	}
	for i, want := range []string{"Кино", "Театр", "Цирк"} {
		if results[i].Title != want {
			t.Errorf("result %d = %q, want %q (input order must be preserved)", i, results[i].Title, want)
		}
	}
}
