package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/meowafisha/meowmap/internal/event"
)

// FormatDigest formats newly found events as an HTML announcement,
// grouped by day with Russian date labels. baseURL, when non-empty, is
// used to build per-event map links.
func FormatDigest(events []*event.Event, baseURL string, now time.Time) string {
	if len(events) == 0 {
		return "Новых событий пока нет."
	}

	var msg strings.Builder
	msg.WriteString("🐾 <b>Новые события на карте</b>\n")
	msg.WriteString(fmt.Sprintf("Всего: %d\n\n", len(events)))

	for _, group := range event.GroupUpcoming(events, now) {
		msg.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", html.EscapeString(group.Label)))
		for _, evt := range group.Events {
			msg.WriteString(formatLine(evt, baseURL))
		}
		msg.WriteString("\n")
	}

	if baseURL != "" {
		msg.WriteString(fmt.Sprintf("🗺 Карта: %s", baseURL))
	}

	return strings.TrimRight(msg.String(), "\n")
}

func formatLine(evt *event.Event, baseURL string) string {
	var line strings.Builder

	line.WriteString("• ")
	if ti := event.ExtractTime(evt.Text); ti != nil {
		line.WriteString(ti.Full)
		line.WriteString(" ")
	}
	line.WriteString(html.EscapeString(evt.Title))
	if evt.Location != "" {
		line.WriteString(" — ")
		line.WriteString(html.EscapeString(evt.Location))
	}
	line.WriteString("\n")

	if baseURL != "" && evt.ID != "" {
		line.WriteString(fmt.Sprintf("  %s\n", ShareURL(baseURL, evt.ID)))
	}

	return line.String()
}

// ShareURL builds the deep link that opens the map focused on an event.
func ShareURL(baseURL, id string) string {
	return fmt.Sprintf("%s/?event=%s", strings.TrimRight(baseURL, "/"), id)
}
