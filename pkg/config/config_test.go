package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("Search.MaxResults = %d, want 50", cfg.Search.MaxResults)
	}
	if cfg.Index.Dir != "index" {
		t.Errorf("Index.Dir = %q, want index", cfg.Index.Dir)
	}
	if cfg.Redis.CacheTTL != 60*time.Second {
		t.Errorf("Redis.CacheTTL = %v, want 60s", cfg.Redis.CacheTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
index:
  dir: /data/index
search:
  maxResults: 25
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Index.Dir != "/data/index" {
		t.Errorf("Index.Dir = %q", cfg.Index.Dir)
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("Search.MaxResults = %d, want 25", cfg.Search.MaxResults)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Unset sections keep their defaults.
	if cfg.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want 5432", cfg.Postgres.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IRS_INDEX_DIR", "/override/index")
	t.Setenv("IRS_POSTGRES_HOST", "db.internal")
	t.Setenv("IRS_SERVER_PORT", "7070")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Index.Dir != "/override/index" {
		t.Errorf("Index.Dir = %q", cfg.Index.Dir)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q", cfg.Postgres.Host)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "ir_search",
		User:     "app",
		Password: "secret",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=app password=secret dbname=ir_search sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
