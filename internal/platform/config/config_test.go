package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "")
	// sin .env en el dir del test
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Fatalf("unexpected port %q addr %q", cfg.Port, cfg.Addr())
	}
	if cfg.FetchAPIBaseURL != DefaultFetchAPIBaseURL {
		t.Fatalf("unexpected base url %q", cfg.FetchAPIBaseURL)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.Storage)
	}
	if cfg.SearchDebounce != 500*time.Millisecond {
		t.Fatalf("unexpected debounce %s", cfg.SearchDebounce)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("unexpected session ttl %s", cfg.SessionTTL)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"http://localhost:5173"}) {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_API_BASE_URL", "http://upstream.local/")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.FetchAPIBaseURL != "http://upstream.local" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.FetchAPIBaseURL)
	}
	if cfg.Storage != StorageRedis || cfg.Redis.Address != "cache:6379" {
		t.Fatalf("unexpected storage %q redis %q", cfg.Storage, cfg.Redis.Address)
	}
	if cfg.SearchDebounce != 250*time.Millisecond {
		t.Fatalf("unexpected debounce %s", cfg.SearchDebounce)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.FluentBit.Enabled {
		t.Fatalf("fluent without host must be disabled")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SESSION_TTL=30m\nLOG_FORMAT=json\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	// godotenv no pisa variables ya definidas; garantizamos que no existan.
	os.Unsetenv("SESSION_TTL")
	os.Unsetenv("LOG_FORMAT")
	t.Cleanup(func() {
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected ttl from .env, got %s", cfg.SessionTTL)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("expected log format from .env, got %q", cfg.Log.Format)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_DSN", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("expected DB_DSN error, got %v", err)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
