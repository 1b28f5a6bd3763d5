package event

import (
	"sort"
	"time"
)

// RecencyWindow is the grace period after a timed event's end during which
// it is still shown among upcoming events, so same-day browsing does not
// lose recently concluded entries. An event ended exactly six hours ago is
// already archived.
const RecencyWindow = 6 * time.Hour

// Buckets is the two-way partition of a feed by recency.
type Buckets struct {
	Upcoming []*Event
	Archive  []*Event
}

// Classify partitions events into upcoming and archive relative to the
// injected now. Every event lands in exactly one bucket:
//   - future dates are always upcoming;
//   - past dates are archive, unless a time range crossing into the recency
//     window (rollover-aware) keeps them relevant;
//   - today's events stay upcoming while they have no end time, have not
//     ended, or ended within the recency window.
func Classify(events []*Event, now time.Time) Buckets {
	today := now.Format(dateLayout)
	b := Buckets{
		Upcoming: make([]*Event, 0, len(events)),
		Archive:  make([]*Event, 0),
	}

	for _, e := range events {
		switch {
		case e.Date > today:
			b.Upcoming = append(b.Upcoming, e)
		case e.Date < today:
			if stillRelevant(e, now) {
				b.Upcoming = append(b.Upcoming, e)
			} else {
				b.Archive = append(b.Archive, e)
			}
		default:
			ti := ExtractTime(e.Text)
			if ti == nil || !ti.HasEndTime || stillRelevant(e, now) {
				b.Upcoming = append(b.Upcoming, e)
			} else {
				b.Archive = append(b.Archive, e)
			}
		}
	}

	return b
}

// stillRelevant reports whether a timed event's end instant is still in the
// future or fell within the trailing recency window.
func stillRelevant(e *Event, now time.Time) bool {
	end, ok := EndInstant(e.Date, ExtractTime(e.Text), now.Location())
	if !ok {
		return false
	}
	return now.Sub(end) < RecencyWindow
}

// DayGroup is one sidebar section of upcoming events sharing a date.
type DayGroup struct {
	Date   string   `json:"date"`
	Label  string   `json:"label"`
	Events []*Event `json:"events"`
}

var weekdayNames = [7]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда",
	"Четверг", "Пятница", "Суббота",
}

// GroupUpcoming arranges upcoming events into "Сегодня" / "Завтра" /
// weekday sections in date order starting from the current day. Dates more
// than a week out fall back to a numeric label.
func GroupUpcoming(upcoming []*Event, now time.Time) []DayGroup {
	byDate := make(map[string][]*Event)
	dates := make([]string, 0)
	for _, e := range upcoming {
		if _, seen := byDate[e.Date]; !seen {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	sort.Strings(dates)

	groups := make([]DayGroup, 0, len(dates))
	for _, date := range dates {
		groups = append(groups, DayGroup{
			Date:   date,
			Label:  dayLabel(date, now),
			Events: byDate[date],
		})
	}
	return groups
}

func dayLabel(dateStr string, now time.Time) string {
	d, err := time.ParseInLocation(dateLayout, dateStr, now.Location())
	if err != nil {
		return dateStr
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(d.Sub(today).Hours() / 24)
	switch {
	case days <= 0:
		return "Сегодня"
	case days == 1:
		return "Завтра"
	case days < 7:
		return weekdayNames[d.Weekday()]
	default:
		return d.Format("02.01.06")
	}
}

// SortArchive orders archive events newest first for display.
func SortArchive(archive []*Event) {
	sort.SliceStable(archive, func(i, j int) bool {
		return archive[i].Date > archive[j].Date
	})
}
