package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/logger"
	"github.com/meowafisha/meowmap/internal/notifier"
)

var flagNotifyDryRun bool

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Announce events not yet posted to Telegram",
		Long: `Compares the feed against the announcement snapshot, posts a digest of
the new events to the configured Telegram chat and records them in the
snapshot so they are announced once.`,
		RunE: runNotify,
	}

	cmd.Flags().BoolVar(&flagNotifyDryRun, "dry-run", false, "Print the digest instead of sending it")

	return cmd
}

func runNotify(cmd *cobra.Command, args []string) error {
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
	snapshot, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	newEvents := event.Diff(snapshot, events)
	if len(newEvents) == 0 {
		fmt.Println("No events to announce.")
		return nil
	}

	var n notifier.Notifier
	if flagNotifyDryRun {
		n = notifier.NewDryRunNotifier(os.Stdout, cfg.BaseURL)
	} else {
		n, err = notifier.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.BaseURL)
		if err != nil {
			return err
		}
	}

	if err := n.Notify(newEvents); err != nil {
		return fmt.Errorf("announcing events: %w", err)
	}
	logger.Info("events announced", logger.Fields{
		"events":  len(newEvents),
		"dry_run": flagNotifyDryRun,
	})

	// The snapshot only advances after a real send so a failed or
	// dry-run announcement can be repeated.
	if !flagNotifyDryRun {
		if err := store.SnapshotEvents(events); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	return nil
}
