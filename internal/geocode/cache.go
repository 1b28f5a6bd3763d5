package geocode

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Cache holds geocoded coordinates keyed by normalized location string,
// interchangeable with the committed geocode_cache.json format: each value
// is a [lat, lon] pair, with [null, null] recording a known miss so dead
// addresses are not retried on every run.
type Cache struct {
	entries map[string][]*float64
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]*float64)}
}

// ParseCache loads a cache from its JSON representation.
func ParseCache(data []byte) (*Cache, error) {
	entries := make(map[string][]*float64)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing geocode cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// MarshalJSON renders the cache back into the committed file format.
func (c *Cache) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.entries)
}

// Len returns the number of cached addresses, misses included.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Normalize canonicalizes a location string for use as a cache key.
func Normalize(loc string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(loc)), " ")
}

// Put stores resolved coordinates for a location.
func (c *Cache) Put(loc string, lat, lon float64) {
	c.entries[Normalize(loc)] = []*float64{&lat, &lon}
}

// PutMiss records that no provider could resolve the location.
func (c *Cache) PutMiss(loc string) {
	c.entries[Normalize(loc)] = []*float64{nil, nil}
}

// Lookup finds coordinates for a location: exact key match first, then any
// entry where one string contains the other. Containment candidates are
// scanned in sorted key order so the "first match wins" policy is
// deterministic, not subject to map iteration order. The second return
// distinguishes a cached miss (found=true, coords nil) from an unknown
// address (found=false).
func (c *Cache) Lookup(loc string) (lat, lon *float64, found bool) {
	key := Normalize(loc)

	if pair, ok := c.entries[key]; ok {
		return pairCoords(pair)
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lower := strings.ToLower(key)
	for _, k := range keys {
		kl := strings.ToLower(k)
		if strings.Contains(kl, lower) || strings.Contains(lower, kl) {
			return pairCoords(c.entries[k])
		}
	}

	return nil, nil, false
}

func pairCoords(pair []*float64) (*float64, *float64, bool) {
	if len(pair) != 2 || pair[0] == nil || pair[1] == nil {
		return nil, nil, true // cached miss
	}
	return pair[0], pair[1], true
}
