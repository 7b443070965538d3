package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.AppPort != "9000" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "9000")
	}
	if cfg.StorageDriver != "file" {
		t.Fatalf("StorageDriver = %q, want file", cfg.StorageDriver)
	}
	if cfg.MinArticles != 50 || cfg.MaxRounds != 3 || cfg.DigestSize != 10 {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg)
	}
	if cfg.RetryBackoff != 5*time.Second || cfg.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected durations: backoff=%s timeout=%s", cfg.RetryBackoff, cfg.FetchTimeout)
	}
	if cfg.CronSpec != "0 9 * * 1,3" {
		t.Fatalf("CronSpec = %q", cfg.CronSpec)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "1234")
	t.Setenv("STORAGE_DRIVER", " Postgres ")
	t.Setenv("MIN_ARTICLES", "20")
	t.Setenv("RETRY_BACKOFF", "1s")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg := Load()
	if cfg.AppPort != "1234" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "1234")
	}
	if cfg.StorageDriver != "postgres" {
		t.Fatalf("StorageDriver should be normalized, got %q", cfg.StorageDriver)
	}
	if cfg.MinArticles != 20 || cfg.RetryBackoff != time.Second {
		t.Fatalf("pipeline overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLocationFallsBackToFixedZone(t *testing.T) {
	cfg := &Config{CronTZ: "Nowhere/Invalid"}
	loc := cfg.Location()
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 8*60*60 {
		t.Fatalf("fallback offset = %d, want %d", offset, 8*60*60)
	}
}
