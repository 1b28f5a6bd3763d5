package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meowafisha/meowmap/internal/config"
	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/geocode"
	"github.com/meowafisha/meowmap/internal/logger"
	"github.com/meowafisha/meowmap/internal/storage"
)

// feed is an immutable snapshot of the event list. Handlers read it
// under RLock; Reload swaps in a fresh one.
type feed struct {
	events    []*event.Event
	byID      map[string]*event.Event
	updatedAt time.Time
}

// Server serves the events API and the static map front end.
type Server struct {
	cfg   *config.Config
	store *storage.Storage
	mux   *http.ServeMux

	mu   sync.RWMutex
	feed *feed

	// now is injectable so classification boundaries can be tested.
	now func() time.Time
}

// New constructs a Server over the given storage. Call Reload before
// serving to populate the feed.
func New(cfg *config.Config, store *storage.Storage) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		mux:   http.NewServeMux(),
		now:   time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.mux)
}

// Reload re-reads events.json and the geocode cache. On failure the
// previous feed stays in place so the map keeps serving.
func (s *Server) Reload() error {
	events, err := s.store.LoadEvents()
	if err != nil {
		logger.Error("feed reload failed", logger.Fields{
			"path": s.store.EventsPath(),
		}, err)
		logger.IncrCounter("feed.reload_errors")
		return fmt.Errorf("loading events: %w", err)
	}

	if cache, err := s.store.LoadGeocodeCache(); err == nil {
		geocode.BackfillFromCache(cache, events)
	} else {
		logger.Warn("geocode cache unavailable, serving without backfill", logger.Fields{
			"error": err.Error(),
		})
	}

	byID := make(map[string]*event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	s.mu.Lock()
	s.feed = &feed{
		events:    events,
		byID:      byID,
		updatedAt: s.now(),
	}
	s.mu.Unlock()

	logger.Info("feed reloaded", logger.Fields{
		"events": len(events),
	})
	logger.SetGauge("feed.events", float64(len(events)))
	logger.IncrCounter("feed.reloads")
	return nil
}

// snapshot returns the current feed, which may be nil before the first
// successful Reload.
func (s *Server) snapshot() *feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed
}

// Run serves until ctx is canceled, refreshing the feed on the
// configured cron schedule.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Reload(); err != nil {
		// An empty data dir on first run is not fatal; the refresh
		// schedule or a fetch run will populate it.
		logger.Warn("initial feed load failed", logger.Fields{
			"error": err.Error(),
		})
	}

	c := cron.New()
	if s.cfg.RefreshCron != "" {
		if _, err := c.AddFunc(s.cfg.RefreshCron, func() {
			if err := s.Reload(); err != nil {
				logger.Error("scheduled reload failed", nil, err)
			}
		}); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{
			"listen": s.cfg.Listen,
		})
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
}
