// Package config loads service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goalfeed/scraper/internal/scoring"
)

const (
	defaultServerAddress = ":8080"
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 30 * time.Second

	defaultNHLBaseURL  = "https://api-web.nhle.com/v1"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxRetries  = 3

	defaultFeedGroup   = "goals"
	defaultCentralFeed = "nhl"
	defaultCollection  = "goals"

	defaultDaysBack      = 3
	maxDaysBack          = 7
	defaultGameWorkers   = 4
	maxGameWorkers       = 8
	defaultDetailRateRPS = 10
	defaultUploadRateRPS = 2
	defaultDedupTTL      = 30 * 24 * time.Hour

	defaultProgressKey = "scrape_progress.json"
)

// Config is the root configuration for the scraper service.
type Config struct {
	Debug    bool            `yaml:"debug"`
	Server   ServerConfig    `yaml:"server"`
	NHL      NHLConfig       `yaml:"nhl"`
	Feed     FeedConfig      `yaml:"feed"`
	Redis    RedisConfig     `yaml:"redis"`
	Progress ProgressConfig  `yaml:"progress"`
	Scraper  ScraperConfig   `yaml:"scraper"`
	Scoring  scoring.Weights `yaml:"scoring"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// NHLConfig configures the schedule and game-detail source.
type NHLConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// FeedConfig configures the activity feed store.
type FeedConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	APISecret   string        `yaml:"api_secret"`
	FeedGroup   string        `yaml:"feed_group"`
	CentralFeed string        `yaml:"central_feed"`
	Collection  string        `yaml:"collection"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RedisConfig configures the Redis client shared by the dedup tracker and the
// optional Redis progress backend.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProgressConfig selects and configures the durable progress store.
// Backend is "http" (S3-compatible blob endpoint) or "redis".
type ProgressConfig struct {
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
}

// ScraperConfig tunes the scrape pipeline.
type ScraperConfig struct {
	DaysBack        int           `yaml:"days_back"`
	GameWorkers     int           `yaml:"game_workers"`
	DetailRateRPS   int           `yaml:"detail_rate_rps"`
	UploadRateRPS   int           `yaml:"upload_rate_rps"`
	DedupTTL        time.Duration `yaml:"dedup_ttl"`
	CronSpec        string        `yaml:"cron"`
	StartupEnabled  bool          `yaml:"startup_enabled"`
	StartupDaysBack int           `yaml:"startup_days_back"`
}

// Load reads, defaults, env-overrides, and validates configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	cfg.Scoring = scoring.DefaultWeights()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied and no file
// loaded. Used by tests and the on-demand CLI path.
func Default() *Config {
	cfg := &Config{Scoring: scoring.DefaultWeights()}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultServerAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}

	if cfg.NHL.BaseURL == "" {
		cfg.NHL.BaseURL = defaultNHLBaseURL
	}
	if cfg.NHL.Timeout == 0 {
		cfg.NHL.Timeout = defaultHTTPTimeout
	}
	if cfg.NHL.MaxRetries == 0 {
		cfg.NHL.MaxRetries = defaultMaxRetries
	}

	if cfg.Feed.FeedGroup == "" {
		cfg.Feed.FeedGroup = defaultFeedGroup
	}
	if cfg.Feed.CentralFeed == "" {
		cfg.Feed.CentralFeed = defaultCentralFeed
	}
	if cfg.Feed.Collection == "" {
		cfg.Feed.Collection = defaultCollection
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = defaultHTTPTimeout
	}

	if cfg.Progress.Backend == "" {
		cfg.Progress.Backend = "http"
	}
	if cfg.Progress.Key == "" {
		cfg.Progress.Key = defaultProgressKey
	}

	if cfg.Scraper.DaysBack == 0 {
		cfg.Scraper.DaysBack = defaultDaysBack
	}
	if cfg.Scraper.GameWorkers == 0 {
		cfg.Scraper.GameWorkers = defaultGameWorkers
	}
	if cfg.Scraper.DetailRateRPS == 0 {
		cfg.Scraper.DetailRateRPS = defaultDetailRateRPS
	}
	if cfg.Scraper.UploadRateRPS == 0 {
		cfg.Scraper.UploadRateRPS = defaultUploadRateRPS
	}
	if cfg.Scraper.DedupTTL == 0 {
		cfg.Scraper.DedupTTL = defaultDedupTTL
	}
	if cfg.Scraper.StartupDaysBack == 0 {
		cfg.Scraper.StartupDaysBack = defaultDaysBack
	}
}

func overrideWithEnvVars(cfg *Config) {
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("SCRAPER_PORT"); v != "" {
		cfg.Server.Address = ":" + v
	}
	if v := os.Getenv("NHL_API_URL"); v != "" {
		cfg.NHL.BaseURL = v
	}
	if v := os.Getenv("FEED_API_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("FEED_API_KEY"); v != "" {
		cfg.Feed.APIKey = v
	}
	if v := os.Getenv("FEED_API_SECRET"); v != "" {
		cfg.Feed.APISecret = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("PROGRESS_BASE_URL"); v != "" {
		cfg.Progress.BaseURL = v
	}
	if v := os.Getenv("SCRAPER_DAYS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scraper.DaysBack = n
		}
	}
}

// Validate checks required fields and clamps bounded values.
func (c *Config) Validate() error {
	if c.Feed.BaseURL == "" {
		return errors.New("feed.base_url is required")
	}
	if c.Feed.APIKey == "" {
		return errors.New("feed.api_key is required")
	}

	switch c.Progress.Backend {
	case "http":
		if c.Progress.BaseURL == "" {
			return errors.New("progress.base_url is required for the http backend")
		}
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis progress backend")
		}
	default:
		return fmt.Errorf("progress.backend must be http or redis, got %q", c.Progress.Backend)
	}

	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}

	if c.Scraper.DaysBack < 1 {
		c.Scraper.DaysBack = 1
	}
	if c.Scraper.DaysBack > maxDaysBack {
		c.Scraper.DaysBack = maxDaysBack
	}
	if c.Scraper.GameWorkers < 1 {
		c.Scraper.GameWorkers = 1
	}
	if c.Scraper.GameWorkers > maxGameWorkers {
		c.Scraper.GameWorkers = maxGameWorkers
	}

	return nil
}

// MaxDaysBack is the hard cap on the lookback window.
func MaxDaysBack() int { return maxDaysBack }

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
