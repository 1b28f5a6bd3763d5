package notifier

import (
	"fmt"
	"io"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/telegram"
)

// DryRunNotifier prints the digest that would be posted without
// actually sending it.
type DryRunNotifier struct {
	out     io.Writer
	baseURL string
	now     func() time.Time
}

// NewDryRunNotifier creates a notifier that writes to out.
func NewDryRunNotifier(out io.Writer, baseURL string) *DryRunNotifier {
	return &DryRunNotifier{out: out, baseURL: baseURL, now: time.Now}
}

// Notify prints the digest message.
func (n *DryRunNotifier) Notify(events []*event.Event) error {
	msg := telegram.FormatDigest(events, n.baseURL, n.now())
	_, err := fmt.Fprintf(n.out, "--- digest (%d events, not sent) ---\n%s\n", len(events), msg)
	return err
}
