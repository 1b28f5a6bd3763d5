// Package cli implements the meowmap command line interface: fetch,
// serve, list, search, notify and ics subcommands over a shared YAML
// config. The fetch command exits with code 2 when unannounced events
// were found, so cron jobs can chain it with notify.
package cli
