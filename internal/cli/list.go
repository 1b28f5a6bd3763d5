package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/filter"
)

var (
	flagListFormat   string
	flagListArchive  bool
	flagListFrom     string
	flagListTo       string
	flagListLocation []string
	flagListWeekends bool
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming (or archived) events",
		RunE:  runList,
	}

	cmd.Flags().StringVar(&flagListFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagListArchive, "archive", false, "Show past events instead of upcoming")
	cmd.Flags().StringVar(&flagListFrom, "from", "", "Earliest date (YYYY-MM-DD or DD.MM.YYYY)")
	cmd.Flags().StringVar(&flagListTo, "to", "", "Latest date (YYYY-MM-DD or DD.MM.YYYY)")
	cmd.Flags().StringArrayVar(&flagListLocation, "location", nil, "Location substring; repeatable, any match passes")
	cmd.Flags().BoolVar(&flagListWeekends, "weekends", false, "Weekend events only")

	return cmd
}

func buildListFilter() (*filter.Filter, error) {
	f := filter.NewFilter()
	if flagListFrom != "" {
		from, err := filter.ParseDate(flagListFrom)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		f.DateFrom = &from
	}
	if flagListTo != "" {
		to, err := filter.ParseDate(flagListTo)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		f.DateTo = &to
	}
	f.Locations = append(f.Locations, flagListLocation...)
	f.WeekendsOnly = flagListWeekends
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagListFormat)
	if err != nil {
		return err
	}
	f, err := buildListFilter()
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

	now := time.Now().In(cfg.Location())
	buckets := event.Classify(events, now)

	if flagListArchive {
		archive := f.Apply(buckets.Archive)
		event.SortArchive(archive)
		return writeArchive(os.Stdout, archive, format, now, flagVerbose)
	}

	upcoming := f.Apply(buckets.Upcoming)
	groups := event.GroupUpcoming(upcoming, now)
	return writeGrouped(os.Stdout, groups, format, now, flagVerbose)
}
