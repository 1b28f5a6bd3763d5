package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/config"
	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/geocode"
	"github.com/meowafisha/meowmap/internal/logger"
	"github.com/meowafisha/meowmap/internal/storage"
	"github.com/meowafisha/meowmap/internal/vk"
)

var (
	flagFetchFormat   string
	flagFetchSnapshot bool
	flagSkipGeocode   bool
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch VK wall posts and update the events feed",
		Long: `Fetches posts from the community wall, extracts events, merges them
into events.json and geocodes new venues. Exits with code 2 when events
not yet recorded in the announcement snapshot were found.`,
		RunE: runFetch,
	}

	cmd.Flags().StringVar(&flagFetchFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagFetchSnapshot, "snapshot", false, "Record fetched events in the announcement snapshot")
	cmd.Flags().BoolVar(&flagSkipGeocode, "skip-geocode", false, "Skip resolving venue coordinates")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFetchFormat)
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

	ctx := cmd.Context()
	start := time.Now()

	posts, err := fetchPosts(ctx, cfg)
	if err != nil {
		return fmt.Errorf("fetching posts: %w", err)
	}
	logger.Info("posts fetched", logger.Fields{
		"posts":  len(posts),
		"domain": cfg.VK.Domain,
	})

	defaultYear := strconv.Itoa(time.Now().In(cfg.Location()).Year())
	fetched := vk.ExtractEvents(posts, defaultYear)

	existing, err := store.LoadEvents()
	if err != nil {
		return fmt.Errorf("loading existing events: %w", err)
	}
	merged := event.Merge(existing, fetched)

	if !flagSkipGeocode {
		if err := geocodeEvents(ctx, cfg, store, merged); err != nil {
			// Coordinates are an enhancement; the feed still works
			// without them.
			logger.Warn("geocoding incomplete", logger.Fields{
				"error": err.Error(),
			})
		}
	}

	event.AssignIDs(merged)
	if err := store.SaveEvents(merged); err != nil {
		return fmt.Errorf("saving events: %w", err)
	}

	snapshot, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	newEvents := event.Diff(snapshot, merged)

	if flagFetchSnapshot {
		if err := store.SnapshotEvents(merged); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	logger.RecordTiming("fetch.run", time.Since(start))
	logger.SetGauge("feed.events", float64(len(merged)))

	result := &fetchResult{
		CheckedAt:  time.Now().UTC(),
		Total:      len(merged),
		NewEvents:  newEvents,
		EventCount: len(newEvents),
	}
	if err := writeFetchResult(os.Stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(newEvents) > 0 {
		os.Exit(ExitNewEvents)
	}
	os.Exit(ExitSuccess)
	return nil
}

// fetchPosts uses the API client when a token is configured and falls
// back to scraping the public mobile wall otherwise.
func fetchPosts(ctx context.Context, cfg *config.Config) ([]vk.Post, error) {
	if cfg.VK.Token != "" {
		client, err := vk.NewClient(cfg.VK.Token, cfg.VK.Domain, cfg.VK.Pause())
		if err != nil {
			return nil, err
		}
		return client.FetchPosts(ctx, cfg.VK.MaxPosts)
	}

	logger.Info("no VK token, scraping the public wall", logger.Fields{
		"domain": cfg.VK.Domain,
	})
	return vk.NewScraper(cfg.VK.Domain).FetchPosts()
}

func geocodeEvents(ctx context.Context, cfg *config.Config, store *storage.Storage, events []*event.Event) error {
	cache, err := store.LoadGeocodeCache()
	if err != nil {
		return fmt.Errorf("loading geocode cache: %w", err)
	}

	g := geocode.New(cache, geocode.Options{
		YandexAPIKey: cfg.Geocode.YandexAPIKey,
		NominatimURL: cfg.Geocode.NominatimURL,
		UserAgent:    cfg.Geocode.UserAgent,
		MinDelay:     cfg.Geocode.MinDelay(),
	})

	resolved, err := g.Backfill(ctx, events)
	logger.Info("geocoding done", logger.Fields{
		"resolved": resolved,
	})

	if saveErr := store.SaveGeocodeCache(g.Cache()); saveErr != nil {
		return fmt.Errorf("saving geocode cache: %w", saveErr)
	}
	return err
}
