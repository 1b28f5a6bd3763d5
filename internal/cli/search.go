package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/search"
)

var flagSearchFormat string

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search events by title and venue",
		Long: `Searches the feed by a free-text query in either script; Latin input
is transliterated into Cyrillic and vice versa. Without a query a short
preview of upcoming events is shown.`,
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&flagSearchFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagSearchFormat)
	if err != nil {
		return err
	}

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

	query := strings.Join(args, " ")
	now := time.Now().In(cfg.Location())
	buckets := event.Classify(events, now)

	results := search.Search(events, buckets.Upcoming, query)
	return writeSearchResults(os.Stdout, query, results, format, now, flagVerbose)
}
