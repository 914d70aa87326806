package config

import "time"

// Config holds runtime settings for the Secure Ballot CLI.
//
// Fields:
//   - APIBaseURL: base URL of the voting platform's authentication API.
//   - RequestTimeout: per-request deadline for API calls.
//   - SessionStorePath: path of the local session store database; empty
//     disables persistence (session lives in memory only).
//   - StoreWatchInterval: how often the session store is polled for changes
//     made by other processes sharing the same store file.
type Config struct {
	APIBaseURL         string
	RequestTimeout     time.Duration
	SessionStorePath   string
	StoreWatchInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.SessionStorePath = "session.db"
	c.StoreWatchInterval = 2 * time.Second
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
