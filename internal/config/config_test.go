package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DETAILS_CACHE_TTL", "")
	t.Setenv("ENRICH_CONCURRENCY", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DetailsCacheTTL != time.Hour {
		t.Errorf("expected 1h cache ttl, got %v", cfg.DetailsCacheTTL)
	}
	if cfg.EnrichConcurrency != 6 {
		t.Errorf("expected concurrency 6, got %d", cfg.EnrichConcurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DETAILS_CACHE_TTL", "90m")
	t.Setenv("ENRICH_CONCURRENCY", "not-a-number")
	t.Setenv("R_PORT", "6380")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.DetailsCacheTTL != 90*time.Minute {
		t.Errorf("expected 90m, got %v", cfg.DetailsCacheTTL)
	}
	if cfg.EnrichConcurrency != 6 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.EnrichConcurrency)
	}
	if cfg.Redis.Port != "6380" {
		t.Errorf("expected redis port 6380, got %s", cfg.Redis.Port)
	}
}
