package event

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// Label formats an event date (plus any time found in text) for display.
// Today's date renders as "Сегодня", other parseable dates as "DD.MM.YY".
// When showElapsed is set and the event has a time range that already ended,
// a "закончилось N час(а/ов) назад" suffix is appended. Unparseable date
// strings pass through unchanged.
func Label(dateStr, text string, showElapsed bool, now time.Time) string {
	var label string
	if dateStr == now.Format(dateLayout) {
		label = "Сегодня"
	} else {
		d, err := time.ParseInLocation(dateLayout, dateStr, now.Location())
		if err != nil {
			return dateStr
		}
		label = d.Format("02.01.06")
	}

	ti := ExtractTime(text)
	if ti != nil {
		label += ", " + ti.Full
	}

	if showElapsed && ti != nil && ti.HasEndTime {
		if hours := ElapsedHours(dateStr, ti, now); hours > 0 {
			label += fmt.Sprintf(" (закончилось %d %s назад)", hours, hourWord(hours))
		}
	}

	return label
}

// hourWord picks the Russian count form for "hour": 1 час, 2-4 часа,
// 5+ часов, with the 11-14 teens always taking "часов".
func hourWord(n int) string {
	if n%100 >= 11 && n%100 <= 14 {
		return "часов"
	}
	switch n % 10 {
	case 1:
		return "час"
	case 2, 3, 4:
		return "часа"
	default:
		return "часов"
	}
}

// EndInstant computes the wall-clock moment a timed event ends. When the end
// hour is numerically smaller than the start hour the range crosses midnight,
// so the end falls on the day after the event date. Returns false when the
// event has no end time or the date does not parse.
func EndInstant(dateStr string, ti *TimeInfo, loc *time.Location) (time.Time, bool) {
	if ti == nil || !ti.HasEndTime {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(dateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, false
	}

	var startH, startM, endH, endM int
	fmt.Sscanf(ti.Start, "%d:%d", &startH, &startM)
	fmt.Sscanf(ti.End, "%d:%d", &endH, &endM)

	end := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, loc)
	if endH < startH {
		end = end.AddDate(0, 0, 1)
	}
	return end, true
}

// ElapsedHours returns how many whole hours (rounded up) have passed since a
// timed event ended, applying the midnight-rollover rule. Returns 0 when the
// event has no end time or has not ended yet.
func ElapsedHours(dateStr string, ti *TimeInfo, now time.Time) int {
	end, ok := EndInstant(dateStr, ti, now.Location())
	if !ok {
		return 0
	}
	if !end.Before(now) {
		return 0
	}
	return int(math.Ceil(now.Sub(end).Hours()))
}
