package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{HTTPAddr: ":8080", GRPCAddr: ":9090", ReloadInterval: 5 * time.Second}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ARENA_HTTP_ADDR", "127.0.0.1:8000")
	t.Setenv("ARENA_DB_PATH", "/tmp/arena.db")
	t.Setenv("ARENA_SEED", "42")
	t.Setenv("ARENA_RELOAD_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:8000" || cfg.DBPath != "/tmp/arena.db" || cfg.Seed != 42 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.ReloadInterval != 250*time.Millisecond {
		t.Fatalf("reload interval = %s", cfg.ReloadInterval)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("ARENA_SEED", "not-a-number")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}

	t.Setenv("ARENA_SEED", "1")
	t.Setenv("ARENA_RELOAD_INTERVAL", "0s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero reload interval")
	}
}
