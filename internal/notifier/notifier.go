package notifier

import (
	"github.com/meowafisha/meowmap/internal/event"
)

// Notifier announces newly found events.
type Notifier interface {
	// Notify posts an announcement for the given events.
	Notify(events []*event.Event) error
}
