// Package notifier announces newly found events. The Telegram notifier
// posts an HTML digest to the MeowAfisha channel; the dry-run notifier
// prints the same digest to stdout for inspection.
package notifier
