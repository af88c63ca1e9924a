// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Places  PlacesConfig  `mapstructure:"places"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlacesConfig governs the Places search/enrichment client.
type PlacesConfig struct {
	APIKey string `mapstructure:"api_key"`
	// RequestDelayMs paces consecutive Places calls (rate limiting is purely
	// delay-based, provider quota is the real limiter).
	RequestDelayMs int `mapstructure:"request_delay_ms"`
	// MaxPages caps pagination per query to bound API cost.
	MaxPages int `mapstructure:"max_pages_per_query"`
	// PageTokenDelayMs is the wait before using a continuation token; the
	// provider needs time to activate it.
	PageTokenDelayMs int `mapstructure:"page_token_delay_ms"`
	TimeoutSeconds   int `mapstructure:"timeout_seconds"`
	MaxRetries       int `mapstructure:"max_retries"`
	RetryBackoffMs   int `mapstructure:"retry_backoff_ms"`
}

// CrawlerConfig governs the site crawler.
type CrawlerConfig struct {
	UserAgent       string `mapstructure:"user_agent"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CrawlDelayMs    int    `mapstructure:"crawl_delay_ms"`
	MaxContactLinks int    `mapstructure:"max_contact_links"`
	MaxRetries      int    `mapstructure:"max_retries"`
	RetryBackoffMs  int    `mapstructure:"retry_backoff_ms"`
}

// StorageConfig sets the datastore path and CSV output directory.
type StorageConfig struct {
	DBPath    string `mapstructure:"db_path"`
	OutputDir string `mapstructure:"output_dir"`
}

// MetricsConfig controls the optional debug HTTP listener.
type MetricsConfig struct {
	// Addr enables the /healthz and /metrics listener when non-empty,
	// e.g. ":9091".
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file plus environment variables.
// Environment keys use the LEADS prefix, e.g. LEADS_PLACES_API_KEY.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("places.request_delay_ms", 1200)
	v.SetDefault("places.max_pages_per_query", 2)
	v.SetDefault("places.page_token_delay_ms", 2000)
	v.SetDefault("places.timeout_seconds", 15)
	v.SetDefault("places.max_retries", 3)
	v.SetDefault("places.retry_backoff_ms", 2000)
	v.SetDefault("crawler.timeout_seconds", 15)
	v.SetDefault("crawler.crawl_delay_ms", 1200)
	v.SetDefault("crawler.max_contact_links", 10)
	v.SetDefault("crawler.max_retries", 3)
	v.SetDefault("crawler.retry_backoff_ms", 2000)
	v.SetDefault("storage.output_dir", "outputs")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values before any work begins.
func (c Config) Validate() error {
	if c.Places.APIKey == "" {
		return fmt.Errorf("places.api_key is required (LEADS_PLACES_API_KEY)")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent is required (LEADS_CRAWLER_USER_AGENT)")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required (LEADS_STORAGE_DB_PATH)")
	}
	if c.Places.MaxPages <= 0 {
		return fmt.Errorf("places.max_pages_per_query must be > 0")
	}
	if c.Places.TimeoutSeconds <= 0 {
		return fmt.Errorf("places.timeout_seconds must be > 0")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.MaxContactLinks <= 0 {
		return fmt.Errorf("crawler.max_contact_links must be > 0")
	}
	return nil
}

// RequestDelay converts the pacing knob into a duration.
func (c PlacesConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

// PageTokenDelay converts the token activation knob into a duration.
func (c PlacesConfig) PageTokenDelay() time.Duration {
	return time.Duration(c.PageTokenDelayMs) * time.Millisecond
}

// Timeout converts the HTTP timeout knob into a duration.
func (c PlacesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBackoff converts the retry wait knob into a duration.
func (c PlacesConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}

// CrawlDelay converts the sub-page pacing knob into a duration.
func (c CrawlerConfig) CrawlDelay() time.Duration {
	return time.Duration(c.CrawlDelayMs) * time.Millisecond
}

// Timeout converts the HTTP timeout knob into a duration.
func (c CrawlerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBackoff converts the retry wait knob into a duration.
func (c CrawlerConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}
