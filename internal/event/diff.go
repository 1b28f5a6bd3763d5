package event

import "sort"

// Snapshot records which events were already seen by a previous fetch run,
// keyed by Event.Key(). Keys survive geocode backfill, so an event whose
// coordinates resolve later is not re-announced.
type Snapshot struct {
	Keys      map[string]bool `json:"keys"`
	UpdatedAt string          `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{Keys: make(map[string]bool)}
}

// CreateSnapshot builds a snapshot from a list of events
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, e := range events {
		snap.Keys[e.Key()] = true
	}
	return snap
}

// Diff returns the events from current that the previous snapshot has not
// seen, sorted by date then title for stable output.
func Diff(previous *Snapshot, current []*Event) []*Event {
	if previous == nil {
		previous = NewSnapshot()
	}

	fresh := make([]*Event, 0)
	for _, e := range current {
		if !previous.Keys[e.Key()] {
			fresh = append(fresh, e)
		}
	}

	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Date != fresh[j].Date {
			return fresh[i].Date < fresh[j].Date
		}
		return fresh[i].Title < fresh[j].Title
	})

	return fresh
}

// Merge combines an existing feed with newly fetched events, dropping
// duplicates by Key(). Existing entries win so resolved coordinates and
// edited text are preserved; the result is sorted by date.
func Merge(existing, fetched []*Event) []*Event {
	seen := make(map[string]bool, len(existing)+len(fetched))
	merged := make([]*Event, 0, len(existing)+len(fetched))

	for _, e := range existing {
		if !seen[e.Key()] {
			seen[e.Key()] = true
			merged = append(merged, e)
		}
	}
	for _, e := range fetched {
		if !seen[e.Key()] {
			seen[e.Key()] = true
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})

	return merged
}
