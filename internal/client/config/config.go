package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the nkitsi CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, e.g. "http://127.0.0.1:5000".
//   - DatabasePath: SQLite file holding the local document list.
//   - RequestTimeout: bound for ordinary JSON calls.
//   - UploadTimeout: bound for one multipart upload.
//   - LogLevel: "debug", "info", "warn" or "error".
//   - OnlineCheckInterval: how often the server is pinged; zero disables it.
type Config struct {
	ServerURL           string
	DatabasePath        string
	RequestTimeout      time.Duration
	UploadTimeout       time.Duration
	LogLevel            string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.DatabasePath = "nkitsi.db"
	c.RequestTimeout = 10 * time.Second
	c.UploadTimeout = 2 * time.Minute
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
