package geocode

import (
	"context"

	"github.com/meowafisha/meowmap/internal/event"
)

// BackfillFromCache fills in coordinates for events lacking them using only
// cached entries (exact match first, then containment). No network calls;
// this is the load-time path. Returns how many events were resolved.
func BackfillFromCache(cache *Cache, events []*event.Event) int {
	if cache == nil {
		return 0
	}
	resolved := 0
	for _, e := range events {
		if e.HasCoords() {
			continue
		}
		lat, lon, found := cache.Lookup(e.Location)
		if found && lat != nil && lon != nil {
			e.SetCoords(*lat, *lon)
			resolved++
		}
	}
	return resolved
}

// Backfill resolves coordinates for events lacking them through the full
// provider cascade, updating the cache as it goes. The fetch pipeline calls
// this after merging new events. Returns how many events were resolved.
func (g *Geocoder) Backfill(ctx context.Context, events []*event.Event) (int, error) {
	resolved := 0
	for _, e := range events {
		if e.HasCoords() {
			continue
		}
		lat, lon, ok, err := g.Resolve(ctx, e.Location)
		if err != nil {
			return resolved, err
		}
		if ok {
			e.SetCoords(lat, lon)
			resolved++
		}
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
	}
	return resolved, nil
}
