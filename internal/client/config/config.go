package config

import "time"

// Config holds runtime settings for the mycolog CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API, empty means local-only.
//   - DatabasePath: filesystem path of the local SQLite database.
//   - SyncInterval: how often the scheduler fires a background sync cycle.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - MaxPhotoDim: longest photo side, in pixels, after upload compression.
//   - JPEGQuality: JPEG encoder quality (1..100) for uploaded photos.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	SyncInterval        time.Duration
	OnlineCheckInterval time.Duration
	MaxPhotoDim         int
	JPEGQuality         int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = ""
	c.DatabasePath = "mycolog.db"
	c.SyncInterval = 5 * time.Minute
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxPhotoDim = 1600
	c.JPEGQuality = 82
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
