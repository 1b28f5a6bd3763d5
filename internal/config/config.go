package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// VKConfig describes the VK community wall the feed is scraped from.
type VKConfig struct {
	// Domain is the short name of the community (the part after vk.com/).
	Domain string `yaml:"domain"`
	// Token is a VK API service token. When empty the fetcher falls back
	// to scraping the public mobile wall page.
	Token string `yaml:"token"`
	// MaxPosts caps how many wall posts are requested per fetch.
	MaxPosts int `yaml:"max_posts"`
	// PauseMS is the delay between paginated wall.get calls.
	PauseMS int `yaml:"pause_ms"`
}

// Pause returns the inter-request pause as a duration.
func (v VKConfig) Pause() time.Duration {
	return time.Duration(v.PauseMS) * time.Millisecond
}

// TelegramConfig holds the announcement bot credentials.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

// GeocodeConfig tunes the address resolution cascade.
type GeocodeConfig struct {
	// YandexAPIKey enables the Yandex provider when set.
	YandexAPIKey string `yaml:"yandex_api_key"`
	// NominatimURL is the Nominatim base URL.
	NominatimURL string `yaml:"nominatim_url"`
	// UserAgent is sent on every geocoding request. Nominatim rejects
	// anonymous clients, so this must stay identifying.
	UserAgent string `yaml:"user_agent"`
	// MinDelayMS is the per-provider minimum spacing between requests.
	MinDelayMS int `yaml:"min_delay_ms"`
}

// MinDelay returns the per-provider request spacing as a duration.
func (g GeocodeConfig) MinDelay() time.Duration {
	return time.Duration(g.MinDelayMS) * time.Millisecond
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API and static map.
	Listen string `yaml:"listen"`

	// BaseURL is the public URL the map is served from. Share links
	// are built against it.
	BaseURL string `yaml:"base_url"`

	// Timezone is the IANA zone events are interpreted in.
	Timezone string `yaml:"timezone"`

	// DataDir is where events.json, the geocode cache and the known-event
	// snapshot live. A leading ~ expands to the home directory.
	DataDir string `yaml:"data_dir"`

	// StaticDir is the directory of front-end assets served at /.
	// Empty disables static serving.
	StaticDir string `yaml:"static_dir"`

	// RefreshCron schedules feed refreshes in serve mode.
	RefreshCron string `yaml:"refresh"`

	VK       VKConfig       `yaml:"vk"`
	Telegram TelegramConfig `yaml:"telegram"`
	Geocode  GeocodeConfig  `yaml:"geocode"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		BaseURL:     "http://127.0.0.1:8080",
		Timezone:    "Europe/Kaliningrad",
		DataDir:     "~/.meowmap",
		StaticDir:   "",
		RefreshCron: "0 */6 * * *",
		VK: VKConfig{
			Domain:   "meowafisha",
			MaxPosts: 300,
			PauseMS:  350,
		},
		Geocode: GeocodeConfig{
			NominatimURL: "https://nominatim.openstreetmap.org",
			UserAgent:    "meowmap/1.0 (events map)",
			MinDelayMS:   1100,
		},
	}
}

// Normalize fills in missing or zero values so that partially filled
// configs from older versions still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.VK.Domain == "" {
		c.VK.Domain = def.VK.Domain
	}
	if c.VK.MaxPosts <= 0 {
		c.VK.MaxPosts = def.VK.MaxPosts
	}
	if c.VK.PauseMS <= 0 {
		c.VK.PauseMS = def.VK.PauseMS
	}
	if c.Geocode.NominatimURL == "" {
		c.Geocode.NominatimURL = def.Geocode.NominatimURL
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = def.Geocode.UserAgent
	}
	if c.Geocode.MinDelayMS <= 0 {
		c.Geocode.MinDelayMS = def.Geocode.MinDelayMS
	}
}

// Location resolves the configured timezone. Unknown zones fall back to
// UTC rather than failing the whole run.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from the given YAML path. If the file does
// not exist a default config is written there with 0600 permissions and
// returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions. Tokens live in this file, hence the tight mode.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".meowmap-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
