package vk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/meowafisha/meowmap/internal/event"
)

// Region towns whose presence in a location line means the city does not
// need to be appended.
var cityWordsRe = regexp.MustCompile(`(?i)(калининград|гурьевск|светлогорск|янтарный|зеленоградск|пионерский|балтийск|поселок|пос\.|г\.)`)

// Date patterns tried in order of strictness.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{2})\.(\d{2})\b`),
	regexp.MustCompile(`\b(\d{2})/(\d{2})\b`),
	regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\b`),
}

// Location markers tried in order: the pin emoji convention first, then
// textual labels.
var locPatterns = []*regexp.Regexp{
	regexp.MustCompile(`📍\s*([^📍\n]+)`),
	regexp.MustCompile(`(?i)место[:\s]\s*(.+)`),
	regexp.MustCompile(`(?i)адрес[:\s]\s*(.+)`),
}

var (
	dateLineRe   = regexp.MustCompile(`\b\d{1,2}[./]\d{1,2}\b`)
	datePrefixRe = regexp.MustCompile(`^\s*\d{1,2}[./]\d{1,2}\s*\|\s*`)
)

// ExtractEvent parses a wall post's text into an event. Posts are expected
// to carry a DD.MM date and a 📍 location line; anything else returns nil.
// defaultYear fills in the year the post format omits.
func ExtractEvent(text, defaultYear string) *event.Event {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var day, month int
	found := false
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			found = true
			break
		}
	}
	if !found || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	var loc string
	for _, re := range locPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			loc = m[1]
			break
		}
	}
	if loc == "" {
		return nil
	}

	// Cut trailing decorations from the location line.
	loc = strings.SplitN(loc, "➡️", 2)[0]
	loc = strings.SplitN(loc, "\n", 2)[0]
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return nil
	}
	if !cityWordsRe.MatchString(loc) {
		loc += ", Калининград"
	}

	date := fmt.Sprintf("%s-%02d-%02d", defaultYear, month, day)

	// Title: the line carrying the date, minus its "DD.MM |" prefix.
	lines := strings.Split(text, "\n")
	title := ""
	for _, line := range lines {
		if dateLineRe.MatchString(line) {
			title = strings.TrimSpace(datePrefixRe.ReplaceAllString(line, ""))
			break
		}
	}
	if title == "" && len(lines) > 0 {
		title = strings.TrimSpace(lines[0])
	}
	if title == "" {
		title = "Событие"
	}

	return event.NewEvent(date, title, loc, text)
}

// ExtractEvents runs ExtractEvent over a batch of posts, skipping posts
// that do not describe an event.
func ExtractEvents(posts []Post, defaultYear string) []*event.Event {
	events := make([]*event.Event, 0, len(posts))
	for _, p := range posts {
		if e := ExtractEvent(p.Text, defaultYear); e != nil {
			events = append(events, e)
		}
	}
	return events
}
