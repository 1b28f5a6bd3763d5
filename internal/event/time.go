package event

import (
	"fmt"
	"regexp"
	"strconv"
)

// TimeInfo holds a time of day (or a range) extracted from event text.
type TimeInfo struct {
	Start      string `json:"start"`         // "HH:MM"
	End        string `json:"end,omitempty"` // "HH:MM", empty without an end time
	HasEndTime bool   `json:"has_end_time"`
	Full       string `json:"full"` // "HH:MM" or "HH:MM-HH:MM"
}

// A colon separator is required so date-like "dd.mm" substrings never match.
var (
	timeRangeRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)
	singleTimeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// ExtractTime scans free-form event text for a time of day or a time range.
// A range ("18:00 - 22:00") takes priority over a single time ("18:00").
// Returns nil when no time is present. A syntactic match with out-of-range
// digits (hour > 23, minute > 59) also yields nil; there is no fallback to a
// weaker pattern once a strict match has been rejected.
func ExtractTime(text string) *TimeInfo {
	if text == "" {
		return nil
	}

	if m := timeRangeRe.FindStringSubmatch(text); m != nil {
		startH, startM := atoi(m[1]), atoi(m[2])
		endH, endM := atoi(m[3]), atoi(m[4])
		if !validClock(startH, startM) || !validClock(endH, endM) {
			return nil
		}
		start := fmt.Sprintf("%02d:%02d", startH, startM)
		end := fmt.Sprintf("%02d:%02d", endH, endM)
		return &TimeInfo{
			Start:      start,
			End:        end,
			HasEndTime: true,
			Full:       start + "-" + end,
		}
	}

	if m := singleTimeRe.FindStringSubmatch(text); m != nil {
		h, min := atoi(m[1]), atoi(m[2])
		if !validClock(h, min) {
			return nil
		}
		start := fmt.Sprintf("%02d:%02d", h, min)
		return &TimeInfo{
			Start: start,
			Full:  start,
		}
	}

	return nil
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// atoi converts digit-only regexp captures; they cannot fail to parse.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
