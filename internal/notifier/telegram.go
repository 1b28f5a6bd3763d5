package notifier

import (
	"fmt"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/telegram"
)

// sender is the part of the Telegram client the notifier needs.
type sender interface {
	SendMessage(text string) error
}

// TelegramNotifier posts a digest of new events to the announcement
// channel.
type TelegramNotifier struct {
	client  sender
	baseURL string
	now     func() time.Time
}

// NewTelegramNotifier wires a Telegram client to the configured chat.
func NewTelegramNotifier(botToken, chatID, baseURL string) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(botToken, chatID)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	return &TelegramNotifier{
		client:  client,
		baseURL: baseURL,
		now:     time.Now,
	}, nil
}

// Notify sends one digest message covering all events. Nothing is sent
// for an empty batch.
func (n *TelegramNotifier) Notify(events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	msg := telegram.FormatDigest(events, n.baseURL, n.now())
	if err := n.client.SendMessage(msg); err != nil {
		return fmt.Errorf("posting digest: %w", err)
	}
	return nil
}
