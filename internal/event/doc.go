// Package event holds the MeowAfisha event model and its date/time core.
//
// The event package handles event representation and identification (a
// deterministic djb2-based ID over date, title and location, used for
// ?event= share links), extraction of times and time ranges from post text,
// Russian display labels with elapsed-hours suffixes, classification of a
// feed into upcoming and archive buckets, and snapshot-based diffing of
// fetch runs.
package event
