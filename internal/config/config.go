// Package config loads the jfreports configuration file.
//
// The file is TOML, by default at ~/.config/jfreports/config.toml. A
// missing file is not an error: every field has a default, and a file only
// needs the keys it changes. A few environment variables override the
// file for container deployments:
//
//	JFREPORTS_SERVER_ADDR  [server] addr
//	JFREPORTS_REDIS_ADDR   [storage] and [prefs] redis_addr
//	JFREPORTS_MONGO_URI    [storage] mongo_uri
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zwdscn-cloud/JFreports/pkg/history"
	"github.com/zwdscn-cloud/JFreports/pkg/prefs"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/storage"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Environment overrides.
const (
	EnvServerAddr = "JFREPORTS_SERVER_ADDR"
	EnvRedisAddr  = "JFREPORTS_REDIS_ADDR"
	EnvMongoURI   = "JFREPORTS_MONGO_URI"
)

// Config is the whole configuration file.
type Config struct {
	Canvas  surface.Settings `toml:"canvas"`
	Snap    snap.Options     `toml:"snap"`
	History History          `toml:"history"`
	Prefs   Prefs            `toml:"prefs"`
	Storage Storage          `toml:"storage"`
	Server  Server           `toml:"server"`
}

// History configures undo.
type History struct {
	DebounceMS int `toml:"debounce_ms"`
	Limit      int `toml:"limit"`
}

// Prefs selects the preference backend.
type Prefs struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Storage selects the dashboard document backend.
type Storage struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr                string `toml:"addr"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Canvas:  surface.DefaultSettings(),
		Snap:    snap.DefaultOptions(),
		History: History{DebounceMS: int(history.DefaultDebounce / time.Millisecond), Limit: history.DefaultLimit},
		Prefs:   Prefs{Backend: BackendFile, RedisAddr: "localhost:6379"},
		Storage: Storage{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: storage.DefaultMongoDatabase,
		},
		Server: Server{Addr: ":8080", ReadTimeoutSeconds: 30, WriteTimeoutSeconds: 60},
	}
}

// DefaultPath returns ~/.config/jfreports/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "jfreports", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jfreports", "config.toml"), nil
}

// Load reads the file at path on top of the defaults and applies the
// environment overrides. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Canvas.Validate(); err != nil {
		return Config{}, fmt.Errorf("config [canvas]: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Storage.RedisAddr = v
		c.Prefs.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Storage.MongoURI = v
	}
}

// Write saves cfg as TOML, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// HistoryOptions converts the [history] section.
func (c Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithDebounce(time.Duration(c.History.DebounceMS) * time.Millisecond),
		history.WithLimit(c.History.Limit),
	}
}

// ReadTimeout returns the server read timeout.
func (s Server) ReadTimeout() time.Duration { return time.Duration(s.ReadTimeoutSeconds) * time.Second }

// WriteTimeout returns the server write timeout.
func (s Server) WriteTimeout() time.Duration { return time.Duration(s.WriteTimeoutSeconds) * time.Second }

// =============================================================================
// Backends
// =============================================================================

// OpenStorage connects the configured dashboard store.
func (c Config) OpenStorage(ctx context.Context) (storage.Store, error) {
	switch c.Storage.Backend {
	case BackendFile, "":
		return storage.NewFileStore(c.Storage.Dir)
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	case BackendRedis:
		return storage.NewRedisStore(ctx, storage.RedisConfig{Addr: c.Storage.RedisAddr})
	case BackendMongo:
		return storage.NewMongoStore(ctx, storage.MongoConfig{URI: c.Storage.MongoURI, Database: c.Storage.MongoDatabase})
	}
	return nil, fmt.Errorf("unknown storage backend %q (want file, memory, redis or mongo)", c.Storage.Backend)
}

// OpenPrefs connects the configured preference store.
func (c Config) OpenPrefs(ctx context.Context) (prefs.Store, error) {
	switch c.Prefs.Backend {
	case BackendFile, "":
		return prefs.NewFileStore(c.Prefs.Dir)
	case BackendMemory:
		return prefs.NewMemoryStore(), nil
	case BackendRedis:
		return prefs.NewRedisStore(ctx, c.Prefs.RedisAddr)
	}
	return nil, fmt.Errorf("unknown prefs backend %q (want file, memory or redis)", c.Prefs.Backend)
}
