// Package calendar renders events as iCalendar payloads for the
// "add to calendar" deep link.
package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/meowafisha/meowmap/internal/event"
)

// defaultDuration is assumed when a post names a start time but no end.
const defaultDuration = 2 * time.Hour

const dateLayout = "2006-01-02"

// Build renders a single-event VCALENDAR. Events without an extractable
// time become all-day entries. shareURL, when non-empty, is attached as
// the event URL so calendar entries link back to the map.
func Build(evt *event.Event, shareURL string, loc *time.Location, now time.Time) (string, error) {
	if evt == nil {
		return "", fmt.Errorf("nil event")
	}
	if loc == nil {
		loc = time.UTC
	}

	day, err := time.ParseInLocation(dateLayout, evt.Date, loc)
	if err != nil {
		return "", fmt.Errorf("parsing event date %q: %w", evt.Date, err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//MeowAfisha//meowmap//RU")

	ve := cal.AddEvent(fmt.Sprintf("%s@meowafisha", evt.ID))
	ve.SetDtStampTime(now.UTC())
	ve.SetSummary(evt.Title)
	if evt.Location != "" {
		ve.SetLocation(evt.Location)
	}
	if evt.Text != "" {
		ve.SetDescription(evt.Text)
	}
	if shareURL != "" {
		ve.SetURL(shareURL)
	}
	ve.SetStatus(ical.ObjectStatusConfirmed)

	ti := event.ExtractTime(evt.Text)
	if ti == nil {
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		return cal.Serialize(), nil
	}

	var clock time.Time
	clock, err = time.Parse("15:04", ti.Start)
	if err != nil {
		return "", fmt.Errorf("parsing start time %q: %w", ti.Start, err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	ve.SetStartAt(start)

	if end, ok := event.EndInstant(evt.Date, ti, loc); ok {
		ve.SetEndAt(end)
	} else {
		ve.SetEndAt(start.Add(defaultDuration))
	}

	return cal.Serialize(), nil
}
