package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Database.SearchIndex = ""
	cfg.Feed.HTTPTimeout = 5 * time.Second
	cfg.Feed.RefreshInterval = 1 * time.Minute
	cfg.Feed.UserAgent = "skim-test/1.0"
	cfg.Feed.Workers = 2
	// Short grace keeps refresh tests fast.
	cfg.Keys.RefreshGrace = 10 * time.Millisecond
	cfg.Log.Level = "off"
	cfg.Log.Path = ""
	return cfg
}
