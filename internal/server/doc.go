// Package server exposes the events feed over HTTP for the map front
// end. It serves the full feed, upcoming/archive buckets, search,
// per-event deep links with share URLs and calendar files, and static
// assets. The feed is held in memory and swapped atomically on reload,
// so a failed refresh never takes the map down.
package server
