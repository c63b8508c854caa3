package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if body != "" {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	t.Setenv("SHOPDASH_CONFIG", path)
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	withConfigFile(t, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Fatalf("backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Store.Key != "shopdash.layout" {
		t.Fatalf("key = %q", cfg.Store.Key)
	}
	if !cfg.Layout.PersistDuringDrag {
		t.Fatal("persist_during_drag should default to true")
	}
	if filepath.Base(cfg.Database.Path) != "shopdash.db" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	withConfigFile(t, `
[store]
backend = "file"
key = "office"

[file]
path = "/tmp/office.json"

[layout]
persist_during_drag = false

[keys]
edit = ["ctrl+e", "e"]
`)
	t.Setenv("SHOPDASH_REDIS_ADDR", "cache:6380")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendFile || cfg.Store.Key != "office" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.File.Path != "/tmp/office.json" {
		t.Fatalf("file path = %q", cfg.File.Path)
	}
	if cfg.Layout.PersistDuringDrag {
		t.Fatal("persist_during_drag = true, want false")
	}
	if cfg.Redis.Addr != "cache:6380" {
		t.Fatalf("redis addr = %q, want env override", cfg.Redis.Addr)
	}
	if got := cfg.Keys["edit"]; len(got) != 2 || got[0] != "ctrl+e" {
		t.Fatalf("keys.edit = %v", got)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	withConfigFile(t, "")
	t.Setenv("SHOPDASH_STORE_BACKEND", "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	withConfigFile(t, "[store\nbackend=")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := withConfigFile(t, "")
	cfg := Config{
		Store:  StoreConfig{Backend: BackendRedis, Key: "shop"},
		Redis:  RedisConfig{Addr: "r:6379", DB: 2},
		Log:    LogConfig{Level: "debug"},
		Layout: LayoutConfig{PersistDuringDrag: false},
		Keys:   map[string][]string{"quit": {"ctrl+c"}},
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Store != cfg.Store || got.Redis != cfg.Redis || got.Log.Level != "debug" {
		t.Fatalf("round trip = %+v", got)
	}
	if got.Layout.PersistDuringDrag {
		t.Fatal("persist_during_drag not saved")
	}
	if k := got.Keys["quit"]; len(k) != 1 || k[0] != "ctrl+c" {
		t.Fatalf("keys.quit = %v", k)
	}
}
