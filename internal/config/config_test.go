package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
feed:
  base_url: "https://feeds.example.com"
  api_key: "key"
redis:
  url: "redis://localhost:6379/0"
progress:
  backend: "http"
  base_url: "https://blobs.example.com"
scraper:
  days_back: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.NHL.BaseURL != "https://api-web.nhle.com/v1" {
		t.Errorf("NHL.BaseURL = %q", cfg.NHL.BaseURL)
	}
	if cfg.Scraper.DaysBack != 2 {
		t.Errorf("Scraper.DaysBack = %d, want 2 from file", cfg.Scraper.DaysBack)
	}
	if cfg.Scraper.GameWorkers != 4 {
		t.Errorf("Scraper.GameWorkers = %d, want default 4", cfg.Scraper.GameWorkers)
	}
	if cfg.Scraper.DedupTTL != 30*24*time.Hour {
		t.Errorf("Scraper.DedupTTL = %v", cfg.Scraper.DedupTTL)
	}
	if cfg.Feed.FeedGroup != "goals" || cfg.Feed.CentralFeed != "nhl" {
		t.Errorf("feed defaults wrong: %+v", cfg.Feed)
	}
	if cfg.Scoring.GameWinner != 10 {
		t.Errorf("Scoring.GameWinner = %d, want default 10", cfg.Scoring.GameWinner)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_PORT", "9090")
	t.Setenv("FEED_API_KEY", "env-key")
	t.Setenv("SCRAPER_DAYS_BACK", "5")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q, want :9090", cfg.Server.Address)
	}
	if cfg.Feed.APIKey != "env-key" {
		t.Errorf("Feed.APIKey = %q, want env override", cfg.Feed.APIKey)
	}
	if cfg.Scraper.DaysBack != 5 {
		t.Errorf("Scraper.DaysBack = %d, want 5", cfg.Scraper.DaysBack)
	}
}

func TestLoadScoringOverride(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML+`
scoring:
  game_winner: 20
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scoring.GameWinner != 20 {
		t.Errorf("Scoring.GameWinner = %d, want 20", cfg.Scoring.GameWinner)
	}
	if cfg.Scoring.TyingGoal != 7 {
		t.Errorf("Scoring.TyingGoal = %d, untouched weights must keep defaults", cfg.Scoring.TyingGoal)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing feed url", func(c *Config) { c.Feed.BaseURL = "" }},
		{"missing feed key", func(c *Config) { c.Feed.APIKey = "" }},
		{"missing redis url", func(c *Config) { c.Redis.URL = "" }},
		{"bad progress backend", func(c *Config) { c.Progress.Backend = "s3" }},
		{"http backend without url", func(c *Config) { c.Progress.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Feed.BaseURL = "https://feeds.example.com"
			cfg.Feed.APIKey = "key"
			cfg.Redis.URL = "redis://localhost:6379"
			cfg.Progress.BaseURL = "https://blobs.example.com"
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidateClampsBounds(t *testing.T) {
	cfg := Default()
	cfg.Feed.BaseURL = "https://feeds.example.com"
	cfg.Feed.APIKey = "key"
	cfg.Redis.URL = "redis://localhost:6379"
	cfg.Progress.BaseURL = "https://blobs.example.com"
	cfg.Scraper.DaysBack = 30
	cfg.Scraper.GameWorkers = 100

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Scraper.DaysBack != MaxDaysBack() {
		t.Errorf("DaysBack = %d, want clamped to %d", cfg.Scraper.DaysBack, MaxDaysBack())
	}
	if cfg.Scraper.GameWorkers != 8 {
		t.Errorf("GameWorkers = %d, want clamped to 8", cfg.Scraper.GameWorkers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Load() on missing file should error")
	}
}
