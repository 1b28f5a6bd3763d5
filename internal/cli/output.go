package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// fetchResult is the output of the fetch command.
type fetchResult struct {
	CheckedAt  time.Time      `json:"checked_at"`
	Total      int            `json:"total"`
	NewEvents  []*event.Event `json:"new_events"`
	EventCount int            `json:"event_count"`
}

func writeFetchResult(w io.Writer, result *fetchResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if result.EventCount == 0 {
		fmt.Fprintf(w, "No new events found (%d total in the feed).\n", result.Total)
		return nil
	}

	for _, evt := range result.NewEvents {
		fmt.Fprintf(w, "NEW: %s\n", eventLine(evt))
	}
	fmt.Fprintf(w, "\nTotal: %d new, %d in the feed\n", result.EventCount, result.Total)
	return nil
}

// eventLine renders one event as "date | title — location".
func eventLine(evt *event.Event) string {
	line := fmt.Sprintf("%s | %s", evt.Date, evt.Title)
	if evt.Location != "" {
		line += " — " + evt.Location
	}
	return line
}

func writeEventDetails(w io.Writer, evt *event.Event, indent string) {
	fmt.Fprintf(w, "%sID: %s\n", indent, evt.ID)
	if ti := event.ExtractTime(evt.Text); ti != nil {
		fmt.Fprintf(w, "%sTime: %s\n", indent, ti.Full)
	}
	if evt.HasCoords() {
		fmt.Fprintf(w, "%sCoords: %.5f, %.5f\n", indent, *evt.Lat, *evt.Lon)
	}
}

type groupedOutput struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Days        []groupJSON `json:"days"`
	Total       int         `json:"total"`
}

type groupJSON struct {
	Date   string         `json:"date"`
	Label  string         `json:"label"`
	Events []*event.Event `json:"events"`
}

func writeGrouped(w io.Writer, groups []event.DayGroup, format OutputFormat, now time.Time, verbose bool) error {
	if format == FormatJSON {
		out := groupedOutput{GeneratedAt: now, Days: make([]groupJSON, 0, len(groups))}
		for _, g := range groups {
			out.Days = append(out.Days, groupJSON{Date: g.Date, Label: g.Label, Events: g.Events})
			out.Total += len(g.Events)
		}
		return writeJSON(w, out)
	}

	if len(groups) == 0 {
		fmt.Fprintln(w, "No upcoming events.")
		return nil
	}

	total := 0
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s (%s):\n", g.Label, g.Date)
		for _, evt := range g.Events {
			fmt.Fprintf(w, "  %s\n", eventLine(evt))
			if verbose {
				writeEventDetails(w, evt, "       ")
			}
			total++
		}
	}
	fmt.Fprintf(w, "\nTotal: %d upcoming\n", total)
	return nil
}

type archiveOutput struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Events      []*event.Event `json:"events"`
	Total       int            `json:"total"`
}

func writeArchive(w io.Writer, archive []*event.Event, format OutputFormat, now time.Time, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, archiveOutput{GeneratedAt: now, Events: archive, Total: len(archive)})
	}

	if len(archive) == 0 {
		fmt.Fprintln(w, "The archive is empty.")
		return nil
	}

	for _, evt := range archive {
		fmt.Fprintf(w, "%s\n", eventLine(evt))
		fmt.Fprintf(w, "     %s\n", event.Label(evt.Date, evt.Text, true, now))
		if verbose {
			writeEventDetails(w, evt, "     ")
		}
	}
	fmt.Fprintf(w, "\nTotal: %d archived\n", len(archive))
	return nil
}

type searchOutput struct {
	Query   string         `json:"query"`
	Results []*event.Event `json:"results"`
	Total   int            `json:"total"`
}

func writeSearchResults(w io.Writer, query string, results []*event.Event, format OutputFormat, now time.Time, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, searchOutput{Query: query, Results: results, Total: len(results)})
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return nil
	}

	for _, evt := range results {
		fmt.Fprintf(w, "%s\n", eventLine(evt))
		fmt.Fprintf(w, "     %s\n", event.Label(evt.Date, evt.Text, false, now))
		if verbose {
			writeEventDetails(w, evt, "     ")
		}
	}
	fmt.Fprintf(w, "\nTotal: %d\n", len(results))
	return nil
}
