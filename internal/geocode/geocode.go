// Package geocode resolves event location strings into coordinates.
//
// Resolution is cache-first against the committed geocode_cache.json, then
// cascades through ArcGIS, Yandex (when an API key is configured) and
// Nominatim. Each provider is rate-limited to roughly one request per
// second and transport errors are retried with exponential backoff before
// the next provider is consulted.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"

	"github.com/meowafisha/meowmap/internal/logger"
)

const defaultMinDelay = time.Second

// Provider resolves a single address into coordinates.
// A (nil, false) result without error means "no match", which is not a
// failure; the cascade just moves on.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, addr string) (lat, lon float64, ok bool, err error)
}

// Geocoder runs the provider cascade over a cache.
type Geocoder struct {
	cache     *Cache
	providers []Provider
	minDelay  time.Duration
	lastCall  map[string]time.Time
	sleep     func(time.Duration)
}

// Options configures the provider cascade.
type Options struct {
	YandexAPIKey string
	NominatimURL string // override for a self-hosted instance
	UserAgent    string
	MinDelay     time.Duration // per-provider pause, default 1s
}

// New creates a Geocoder over the given cache.
func New(cache *Cache, opts Options) *Geocoder {
	if cache == nil {
		cache = NewCache()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "meowmap-geocoder/1.0"
	}
	minDelay := opts.MinDelay
	if minDelay == 0 {
		minDelay = defaultMinDelay
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	providers := []Provider{newArcGIS(httpClient, ua)}
	if opts.YandexAPIKey != "" {
		providers = append(providers, newYandex(httpClient, ua, opts.YandexAPIKey))
	}
	providers = append(providers, newNominatim(httpClient, ua, opts.NominatimURL))

	return &Geocoder{
		cache:     cache,
		providers: providers,
		minDelay:  minDelay,
		lastCall:  make(map[string]time.Time),
		sleep:     time.Sleep,
	}
}

// Cache exposes the underlying cache so callers can persist it after a run.
func (g *Geocoder) Cache() *Cache {
	return g.cache
}

// Resolve geocodes an address, consulting the cache first. Cached misses
// short-circuit the cascade. A full cascade failure is recorded as a miss
// and returned as ok=false without error.
func (g *Geocoder) Resolve(ctx context.Context, addr string) (lat, lon float64, ok bool, err error) {
	addr = Normalize(addr)
	if addr == "" {
		return 0, 0, false, fmt.Errorf("empty address")
	}

	if cachedLat, cachedLon, found := g.cache.Lookup(addr); found {
		if cachedLat == nil || cachedLon == nil {
			logger.Debug("geocode cache hit: known miss", logger.Fields{"addr": addr})
			return 0, 0, false, nil
		}
		logger.Debug("geocode cache hit", logger.Fields{"addr": addr})
		return *cachedLat, *cachedLon, true, nil
	}

	for _, p := range g.providers {
		g.throttle(p.Name())

		lat, lon, ok, err := g.resolveWith(ctx, p, addr)
		if err != nil {
			logger.Warn("geocoder failed", logger.Fields{"provider": p.Name(), "addr": addr, "error": err.Error()})
			continue
		}
		if !ok {
			logger.Debug("geocoder had no result", logger.Fields{"provider": p.Name(), "addr": addr})
			continue
		}

		g.cache.Put(addr, lat, lon)
		logger.Info("geocoded address", logger.Fields{"provider": p.Name(), "addr": addr})
		return lat, lon, true, nil
	}

	g.cache.PutMiss(addr)
	logger.Warn("all geocoders failed", logger.Fields{"addr": addr})
	return 0, 0, false, nil
}

func (g *Geocoder) resolveWith(ctx context.Context, p Provider, addr string) (lat, lon float64, ok bool, err error) {
	operation := func() error {
		var opErr error
		lat, lon, ok, opErr = p.Geocode(ctx, addr)
		return opErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	err = backoff.Retry(operation, policy)
	return lat, lon, ok, err
}

// throttle enforces the per-provider minimum delay.
func (g *Geocoder) throttle(provider string) {
	if last, seen := g.lastCall[provider]; seen {
		if wait := g.minDelay - time.Since(last); wait > 0 {
			g.sleep(wait)
		}
	}
	g.lastCall[provider] = time.Now()
}

// ---- providers ----

type arcgisProvider struct {
	sling *sling.Sling
}

func newArcGIS(client *http.Client, ua string) *arcgisProvider {
	return &arcgisProvider{
		sling: sling.New().Client(client).
			Base("https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer/").
			Set("User-Agent", ua),
	}
}

func (p *arcgisProvider) Name() string { return "arcgis" }

type arcgisParams struct {
	SingleLine string `url:"singleLine"`
	Format     string `url:"f"`
	MaxResults int    `url:"maxLocations"`
}

type arcgisResponse struct {
	Candidates []struct {
		Location struct {
			X float64 `json:"x"` // lon
			Y float64 `json:"y"` // lat
		} `json:"location"`
	} `json:"candidates"`
}

func (p *arcgisProvider) Geocode(ctx context.Context, addr string) (float64, float64, bool, error) {
	var body arcgisResponse
	req, err := p.sling.New().Get("findAddressCandidates").
		QueryStruct(&arcgisParams{SingleLine: addr, Format: "json", MaxResults: 1}).
		Request()
	if err != nil {
		return 0, 0, false, err
	}
	if err := doJSON(p.sling, req.WithContext(ctx), &body); err != nil {
		return 0, 0, false, err
	}
	if len(body.Candidates) == 0 {
		return 0, 0, false, nil
	}
	loc := body.Candidates[0].Location
	return loc.Y, loc.X, true, nil
}

type yandexProvider struct {
	sling  *sling.Sling
	apiKey string
}

func newYandex(client *http.Client, ua, apiKey string) *yandexProvider {
	return &yandexProvider{
		sling: sling.New().Client(client).
			Base("https://geocode-maps.yandex.ru/").
			Set("User-Agent", ua),
		apiKey: apiKey,
	}
}

func (p *yandexProvider) Name() string { return "yandex" }

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"` // "lon lat"
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

func (p *yandexProvider) Geocode(ctx context.Context, addr string) (float64, float64, bool, error) {
	params := url.Values{}
	params.Set("apikey", p.apiKey)
	params.Set("format", "json")
	params.Set("geocode", addr)
	params.Set("results", "1")

	var body yandexResponse
	req, err := p.sling.New().Get("1.x/?" + params.Encode()).Request()
	if err != nil {
		return 0, 0, false, err
	}
	if err := doJSON(p.sling, req.WithContext(ctx), &body); err != nil {
		return 0, 0, false, err
	}

	members := body.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return 0, 0, false, nil
	}

	var lon, lat float64
	if _, err := fmt.Sscanf(members[0].GeoObject.Point.Pos, "%f %f", &lon, &lat); err != nil {
		return 0, 0, false, fmt.Errorf("parsing yandex point %q: %w", members[0].GeoObject.Point.Pos, err)
	}
	return lat, lon, true, nil
}

type nominatimProvider struct {
	sling *sling.Sling
}

func newNominatim(client *http.Client, ua, baseURL string) *nominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/"
	}
	return &nominatimProvider{
		sling: sling.New().Client(client).Base(baseURL).Set("User-Agent", ua),
	}
}

func (p *nominatimProvider) Name() string { return "nominatim" }

type nominatimParams struct {
	Query  string `url:"q"`
	Format string `url:"format"`
	Limit  int    `url:"limit"`
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (p *nominatimProvider) Geocode(ctx context.Context, addr string) (float64, float64, bool, error) {
	var body []nominatimResult
	req, err := p.sling.New().Get("search").
		QueryStruct(&nominatimParams{Query: addr, Format: "json", Limit: 1}).
		Request()
	if err != nil {
		return 0, 0, false, err
	}
	if err := doJSON(p.sling, req.WithContext(ctx), &body); err != nil {
		return 0, 0, false, err
	}
	if len(body) == 0 {
		return 0, 0, false, nil
	}

	lat, err := strconv.ParseFloat(body[0].Lat, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("parsing nominatim lat %q: %w", body[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(body[0].Lon, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("parsing nominatim lon %q: %w", body[0].Lon, err)
	}
	return lat, lon, true, nil
}

// doJSON executes a prepared request through the sling's underlying client
// and decodes the 200-response body as JSON.
func doJSON(s *sling.Sling, req *http.Request, v any) error {
	resp, err := s.Do(req, v, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
