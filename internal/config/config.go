// Package config loads shopdash settings from a TOML file and SHOPDASH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	File     FileConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Log      LogConfig
	Layout   LayoutConfig
	// Keys maps a TUI action name to the keys that trigger it, replacing
	// the default keys for that action.
	Keys map[string][]string
}

// StoreConfig selects where the layout snapshot is persisted.
type StoreConfig struct {
	Backend string
	Key     string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// FileConfig holds the JSON file backend settings.
type FileConfig struct {
	Path string
}

// RedisConfig holds the Redis backend settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CatalogConfig points at an optional widget catalog override.
type CatalogConfig struct {
	Path string
}

// LogConfig controls the log sink used while the TUI owns the terminal.
type LogConfig struct {
	Path  string
	Level string
}

// LayoutConfig holds layout engine behaviour switches.
type LayoutConfig struct {
	// PersistDuringDrag writes the layout on every drag hover. When false
	// the writes are held until the drag ends.
	PersistDuringDrag bool `mapstructure:"persist_during_drag"`
}

// Path returns the config file location: SHOPDASH_CONFIG when set, else
// config.toml under the user config dir.
func Path() string {
	if p := os.Getenv("SHOPDASH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configHome(), "shopdash", "config.toml")
}

func configHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share")
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.key", "shopdash.layout")
	v.SetDefault("database.path", filepath.Join(dataHome(), "shopdash", "shopdash.db"))
	v.SetDefault("file.path", filepath.Join(configHome(), "shopdash", "layout.json"))
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("catalog.path", "")
	v.SetDefault("log.path", filepath.Join(stateHome(), "shopdash", "shopdash.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("layout.persist_during_drag", true)
}

// Load reads configuration from file and env. Env var overrides use prefix
// SHOPDASH_ with dots replaced by underscores, e.g. SHOPDASH_STORE_BACKEND.
// A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("SHOPDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", Path(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendSQLite, BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("store.backend: unknown backend %q (want %s)", c.Store.Backend, strings.Join(Backends(), ", "))
	}
	return nil
}

// Backends lists the accepted store.backend values.
func Backends() []string {
	out := []string{BackendSQLite, BackendFile, BackendRedis, BackendMemory}
	sort.Strings(out)
	return out
}

// Save writes the provided config to disk, creating the config directory if
// needed. The Redis password is written in plain text; prefer
// SHOPDASH_REDIS_PASSWORD.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.key", cfg.Store.Key)
	v.Set("database.path", cfg.Database.Path)
	v.Set("file.path", cfg.File.Path)
	v.Set("redis.addr", cfg.Redis.Addr)
	v.Set("redis.password", cfg.Redis.Password)
	v.Set("redis.db", cfg.Redis.DB)
	v.Set("catalog.path", cfg.Catalog.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("layout.persist_during_drag", cfg.Layout.PersistDuringDrag)
	for action, keys := range cfg.Keys {
		v.Set("keys."+action, keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
