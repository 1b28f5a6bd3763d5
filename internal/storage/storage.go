package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/geocode"
)

const (
	eventsFile   = "events.json"
	cacheFile    = "geocode_cache.json"
	snapshotFile = "snapshot.json"
)

// Storage handles persistence of the event feed, the geocode cache and the
// seen-events snapshot inside a single data directory.
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// EventsPath returns the path of the events feed file.
func (s *Storage) EventsPath() string {
	return filepath.Join(s.dataDir, eventsFile)
}

// LoadEvents reads the feed and assigns IDs in place. A missing file yields
// an empty feed, not an error; the caller decides whether that is the
// "no events" state.
func (s *Storage) LoadEvents() ([]*event.Event, error) {
	data, err := os.ReadFile(s.EventsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []*event.Event{}, nil
		}
		return nil, fmt.Errorf("reading events: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	event.AssignIDs(events)
	return events, nil
}

// SaveEvents writes the feed sorted by date. IDs are derived at load time
// and not persisted.
func (s *Storage) SaveEvents(events []*event.Event) error {
	stripped := make([]*event.Event, len(events))
	for i, e := range events {
		clone := *e
		clone.ID = ""
		stripped[i] = &clone
	}

	data, err := json.MarshalIndent(stripped, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}
	if err := os.WriteFile(s.EventsPath(), data, 0644); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// LoadGeocodeCache reads the geocode cache, returning an empty cache when
// the file does not exist yet.
func (s *Storage) LoadGeocodeCache() (*geocode.Cache, error) {
	path := filepath.Join(s.dataDir, cacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return geocode.NewCache(), nil
		}
		return nil, fmt.Errorf("reading geocode cache: %w", err)
	}

	cache, err := geocode.ParseCache(data)
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// SaveGeocodeCache persists the geocode cache.
func (s *Storage) SaveGeocodeCache(cache *geocode.Cache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding geocode cache: %w", err)
	}
	path := filepath.Join(s.dataDir, cacheFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing geocode cache: %w", err)
	}
	return nil
}

// LoadSnapshot loads the seen-events snapshot from disk
func (s *Storage) LoadSnapshot() (*event.Snapshot, error) {
	path := filepath.Join(s.dataDir, snapshotFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Keys == nil {
		snapshot.Keys = make(map[string]bool)
	}
	return &snapshot, nil
}

// SaveSnapshot saves the seen-events snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	path := filepath.Join(s.dataDir, snapshotFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SnapshotEvents creates and saves a snapshot from a list of events
func (s *Storage) SnapshotEvents(events []*event.Event) error {
	snapshot := event.CreateSnapshot(events, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot)
}
