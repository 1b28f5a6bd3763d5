package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meowafisha/meowmap/internal/calendar"
	"github.com/meowafisha/meowmap/internal/event"
	"github.com/meowafisha/meowmap/internal/logger"
	"github.com/meowafisha/meowmap/internal/search"
)

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/events/upcoming", s.handleUpcoming)
	s.mux.HandleFunc("GET /api/events/archive", s.handleArchive)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleEventByID)
	s.mux.HandleFunc("GET /api/events/{id}/ics", s.handleEventICS)
	s.mux.HandleFunc("GET /api/events/{id}/share", s.handleEventShare)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)

	if s.cfg.StaticDir != "" {
		s.mux.Handle("/", s.staticFileServer())
	}
}

// eventDTO is the JSON shape of a single event.
type eventDTO struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Title    string          `json:"title"`
	Location string          `json:"location"`
	Text     string          `json:"text,omitempty"`
	Lat      *float64        `json:"lat"`
	Lon      *float64        `json:"lon"`
	Label    string          `json:"label"`
	Time     *event.TimeInfo `json:"time,omitempty"`
	Status   string          `json:"status"`
}

type eventsResponse struct {
	Events    []eventDTO `json:"events"`
	Total     int        `json:"total"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type dayGroupDTO struct {
	Date   string     `json:"date"`
	Label  string     `json:"label"`
	Events []eventDTO `json:"events"`
}

const (
	statusUpcoming = "upcoming"
	statusArchive  = "archive"
)

func (s *Server) toDTO(e *event.Event, status string, now time.Time) eventDTO {
	showElapsed := status == statusArchive
	return eventDTO{
		ID:       e.ID,
		Date:     e.Date,
		Title:    e.Title,
		Location: e.Location,
		Text:     e.Text,
		Lat:      e.Lat,
		Lon:      e.Lon,
		Label:    event.Label(e.Date, e.Text, showElapsed, now),
		Time:     event.ExtractTime(e.Text),
		Status:   status,
	}
}

// statusIndex maps event ids to their classification bucket.
func statusIndex(buckets event.Buckets) map[string]string {
	idx := make(map[string]string, len(buckets.Upcoming)+len(buckets.Archive))
	for _, e := range buckets.Upcoming {
		idx[e.ID] = statusUpcoming
	}
	for _, e := range buckets.Archive {
		idx[e.ID] = statusArchive
	}
	return idx
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	f := s.snapshot()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "feed not loaded")
		return
	}

	now := s.now().In(s.cfg.Location())
	idx := statusIndex(event.Classify(f.events, now))

	dtos := make([]eventDTO, 0, len(f.events))
	for _, e := range f.events {
		dtos = append(dtos, s.toDTO(e, idx[e.ID], now))
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:    dtos,
		Total:     len(dtos),
		UpdatedAt: f.updatedAt,
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	f := s.snapshot()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "feed not loaded")
		return
	}

	now := s.now().In(s.cfg.Location())
	buckets := event.Classify(f.events, now)

	groups := make([]dayGroupDTO, 0)
	for _, g := range event.GroupUpcoming(buckets.Upcoming, now) {
		dtos := make([]eventDTO, 0, len(g.Events))
		for _, e := range g.Events {
			dtos = append(dtos, s.toDTO(e, statusUpcoming, now))
		}
		groups = append(groups, dayGroupDTO{Date: g.Date, Label: g.Label, Events: dtos})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":  groups,
		"total": len(buckets.Upcoming),
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	f := s.snapshot()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "feed not loaded")
		return
	}

	now := s.now().In(s.cfg.Location())
	buckets := event.Classify(f.events, now)

	archive := make([]*event.Event, len(buckets.Archive))
	copy(archive, buckets.Archive)
	event.SortArchive(archive)

	dtos := make([]eventDTO, 0, len(archive))
	for _, e := range archive {
		dtos = append(dtos, s.toDTO(e, statusArchive, now))
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Events:    dtos,
		Total:     len(dtos),
		UpdatedAt: f.updatedAt,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	f := s.snapshot()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "feed not loaded")
		return
	}

	query := r.URL.Query().Get("q")
	now := s.now().In(s.cfg.Location())
	buckets := event.Classify(f.events, now)
	idx := statusIndex(buckets)

	results := search.Search(f.events, buckets.Upcoming, query)

	logger.IncrCounter("search.requests")

	dtos := make([]eventDTO, 0, len(results))
	for _, e := range results {
		dtos = append(dtos, s.toDTO(e, idx[e.ID], now))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": dtos,
		"total":   len(dtos),
	})
}

// lookupEvent resolves the {id} path value against the current feed.
func (s *Server) lookupEvent(w http.ResponseWriter, r *http.Request) (*event.Event, bool) {
	f := s.snapshot()
	if f == nil {
		writeError(w, http.StatusServiceUnavailable, "feed not loaded")
		return nil, false
	}

	id := r.PathValue("id")
	evt, ok := f.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return nil, false
	}
	return evt, true
}

func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request) {
	evt, ok := s.lookupEvent(w, r)
	if !ok {
		return
	}

	now := s.now().In(s.cfg.Location())
	idx := statusIndex(event.Classify([]*event.Event{evt}, now))
	writeJSON(w, http.StatusOK, s.toDTO(evt, idx[evt.ID], now))
}

func (s *Server) handleEventICS(w http.ResponseWriter, r *http.Request) {
	evt, ok := s.lookupEvent(w, r)
	if !ok {
		return
	}

	loc := s.cfg.Location()
	ics, err := calendar.Build(evt, s.shareURL(evt.ID), loc, s.now())
	if err != nil {
		logger.Error("ics build failed", logger.Fields{"event_id": evt.ID}, err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar entry")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", evt.ID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

func (s *Server) handleEventShare(w http.ResponseWriter, r *http.Request) {
	evt, ok := s.lookupEvent(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":  evt.ID,
		"url": s.shareURL(evt.ID),
	})
}

// shareURL builds the deep link that opens the map focused on an event.
func (s *Server) shareURL(id string) string {
	return fmt.Sprintf("%s/?event=%s", strings.TrimRight(s.cfg.BaseURL, "/"), id)
}

// staticFileServer serves the front-end assets, keeping /api paths for
// the API handlers.
func (s *Server) staticFileServer() http.Handler {
	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write JSON response", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
