package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/calendar"
)

var flagICSOutput string

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics <event-id>",
		Short: "Export an event as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE:  runICS,
	}

	cmd.Flags().StringVar(&flagICSOutput, "output", "", "Write to a file instead of stdout")

	return cmd
}

func runICS(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	events, err := store.LoadEvents()
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	for _, evt := range events {
		if evt.ID != id {
			continue
		}

		shareURL := fmt.Sprintf("%s/?event=%s", strings.TrimRight(cfg.BaseURL, "/"), evt.ID)
		ics, err := calendar.Build(evt, shareURL, cfg.Location(), time.Now())
		if err != nil {
			return fmt.Errorf("building calendar entry: %w", err)
		}

		if flagICSOutput != "" {
			if err := os.WriteFile(flagICSOutput, []byte(ics), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", flagICSOutput, err)
			}
			return nil
		}
		fmt.Print(ics)
		return nil
	}

	return fmt.Errorf("event %s not found", id)
}
