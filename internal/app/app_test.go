package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/LJTian/AIPulse/internal/config"
	"github.com/LJTian/AIPulse/internal/notify"
	"github.com/LJTian/AIPulse/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageDriver: "file",
		DataDir:       t.TempDir(),
		MinArticles:   50,
		MaxRounds:     3,
		DigestSize:    10,
	}
}

func TestNewWithFileStore(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	if _, ok := a.Store.(*storage.FileStore); !ok {
		t.Fatalf("expected file store, got %T", a.Store)
	}
	if _, ok := a.Publisher.(notify.Nop); !ok {
		t.Fatalf("expected nop publisher, got %T", a.Publisher)
	}
	if a.Runner.Enricher != nil {
		t.Fatalf("enricher should be disabled without scraper url")
	}
	list, err := a.Policies.List(context.Background())
	if err != nil || len(list) == 0 {
		t.Fatalf("policies should be seeded: %v", err)
	}
	if len(a.Runner.Sources) == 0 {
		t.Fatalf("default sources expected")
	}
}

func TestNewWithSourcesFileAndScraper(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "sources.yaml")
	yml := "sources:\n  - name: Example\n    url: https://example.com/feed.xml\n    kind: feed\n    language: en\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write sources: %v", err)
	}
	cfg.SourcesFile = path
	cfg.BrowserScraperURL = "http://localhost:4000"

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()
	if len(a.Runner.Sources) != 1 || a.Runner.Sources[0].Name != "Example" {
		t.Fatalf("unexpected sources: %+v", a.Runner.Sources)
	}
	if a.Runner.Enricher == nil {
		t.Fatalf("enricher should be configured")
	}
}

func TestNewUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = "mongo"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNewUnknownDriverReleasesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.StorageDriver = "mongo"
	cfg.RedisAddr = mr.Addr()
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	deadline := time.Now().Add(2 * time.Second)
	for mr.CurrentConnectionCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("redis connection still open after failed init: %d", mr.CurrentConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
