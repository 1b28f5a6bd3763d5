// Package storage provides JSON-based persistence for the MeowMap data
// directory.
//
// Three files live there: events.json (the feed the map front end consumes,
// sorted by date, without derived IDs), geocode_cache.json (resolved and
// known-missing addresses, committed to save API quota) and snapshot.json
// (keys of events already seen by previous fetch runs, driving "what's
// new" announcements).
package storage
