// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend selectors.
const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// LINE channel credentials, required by the bot only.
	ChannelAccessToken string
	ChannelSecret      string

	SourceURL      string
	StorageBackend string // sqlite | json
	DBPath         string
	DataFile       string

	HTTPAddr    string
	MetricsAddr string

	CrawlSchedule  string // cron expression
	ContentTimeout time.Duration
	AdvanceTimeout time.Duration
	PollInterval   time.Duration
	SettleDelay    time.Duration

	Headless   bool
	ChromePath string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset. LINE credentials are not validated here; only cmd/bot needs
// them and it calls ValidateLINE itself.
func Load() (*Config, error) {
	contentTimeout, err := durationOrDefault("CONTENT_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	advanceTimeout, err := durationOrDefault("ADVANCE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := durationOrDefault("POLL_INTERVAL", 250*time.Millisecond)
	if err != nil {
		return nil, err
	}
	settleDelay, err := durationOrDefault("SETTLE_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ChannelAccessToken: os.Getenv("CHANNEL_ACCESS_TOKEN"),
		ChannelSecret:      os.Getenv("CHANNEL_SECRET"),

		SourceURL:      envOrDefault("SOURCE_URL", "https://www.thaiwater.net/water/wl"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", StorageJSON),
		DBPath:         os.Getenv("DB_PATH"),
		DataFile:       envOrDefault("DATA_FILE", "thaiwater_wl.json"),

		HTTPAddr:    envOrDefault("HTTP_ADDR", ":5000"),
		MetricsAddr: envOrDefault("METRICS_ADDR", ":9100"),

		CrawlSchedule:  envOrDefault("CRAWL_SCHEDULE", "0 * * * *"),
		ContentTimeout: contentTimeout,
		AdvanceTimeout: advanceTimeout,
		PollInterval:   pollInterval,
		SettleDelay:    settleDelay,

		Headless:   boolOrDefault("HEADLESS", true),
		ChromePath: os.Getenv("CHROME_PATH"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "console"),
	}

	if cfg.StorageBackend != StorageSQLite && cfg.StorageBackend != StorageJSON {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q, want %q or %q", cfg.StorageBackend, StorageSQLite, StorageJSON)
	}
	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}

	return cfg, nil
}

// ValidateLINE checks the credentials the webhook front-end cannot run without.
func (c *Config) ValidateLINE() error {
	if c.ChannelAccessToken == "" || c.ChannelSecret == "" {
		return errors.New("missing env vars: CHANNEL_ACCESS_TOKEN / CHANNEL_SECRET")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func boolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
