package container

import (
	"context"
	"testing"
	"time"

	"mediascope/internal/config"
	"mediascope/internal/repository"
)

func TestNewWithoutBackends(t *testing.T) {
	cfg := config.Config{
		DetailsCacheTTL:   time.Minute,
		EnrichConcurrency: 2,
		Auth:              config.AuthConfig{JWTSecret: "s"},
	}

	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.Store.(*repository.MemoryStore); !ok {
		t.Errorf("expected in-memory store, got %T", c.Store)
	}
	if c.DB != nil || c.Redis != nil {
		t.Error("no backend connections expected")
	}
	if c.UseCases == nil || c.UseCases.ListLogs == nil || !c.Verifier.Configured() {
		t.Error("use cases and verifier should be wired")
	}
}
