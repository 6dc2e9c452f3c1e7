// Package config loads explorer configuration from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// then BIOLINK_* environment variables. Everything has a sensible
// default, so a bare `biolink-explorer serve` works without any config.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration for the CLI and server.
type Config struct {
	// Version is the default model version when none is requested.
	Version string `toml:"version"`

	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	GitHub GitHub `toml:"github"`
	Log    Log    `toml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// Cache selects and configures the pipeline cache backend.
type Cache struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty selects the XDG default.
	Dir string `toml:"dir"`

	Redis Redis `toml:"redis"`
}

// Redis configures the Redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Store selects and configures the snapshot store backend.
type Store struct {
	// Backend is one of "memory" or "mongo".
	Backend string `toml:"backend"`

	Mongo Mongo `toml:"mongo"`
}

// Mongo configures the MongoDB snapshot store.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// GitHub configures the upstream schema source.
type GitHub struct {
	// Token authenticates API requests. Unauthenticated requests work
	// but hit lower rate limits.
	Token string `toml:"token"`

	// Owner and Repo override the upstream repository.
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
}

// Log configures logging output.
type Log struct {
	// Level is one of "debug", "info", "warn", or "error".
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version: "latest",
		Server:  Server{Addr: ":8080"},
		Cache:   Cache{Backend: "file", Redis: Redis{Addr: "localhost:6379"}},
		Store:   Store{Backend: "memory"},
		Log:     Log{Level: "info"},
	}
}

// Load reads configuration from path and applies environment overrides.
// An empty path skips the file and uses defaults plus environment.
// A missing file at an explicitly given path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays BIOLINK_* environment variables. GITHUB_TOKEN is
// also honored since that's what CI environments export.
func (c *Config) applyEnv() {
	setString(&c.Version, "BIOLINK_VERSION")
	setString(&c.Server.Addr, "BIOLINK_ADDR")
	setString(&c.Cache.Backend, "BIOLINK_CACHE_BACKEND")
	setString(&c.Cache.Dir, "BIOLINK_CACHE_DIR")
	setString(&c.Cache.Redis.Addr, "BIOLINK_REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "BIOLINK_REDIS_PASSWORD")
	setInt(&c.Cache.Redis.DB, "BIOLINK_REDIS_DB")
	setString(&c.Store.Backend, "BIOLINK_STORE_BACKEND")
	setString(&c.Store.Mongo.URI, "BIOLINK_MONGO_URI")
	setString(&c.Store.Mongo.Database, "BIOLINK_MONGO_DATABASE")
	setString(&c.Store.Mongo.Collection, "BIOLINK_MONGO_COLLECTION")
	setString(&c.GitHub.Token, "GITHUB_TOKEN")
	setString(&c.GitHub.Token, "BIOLINK_GITHUB_TOKEN")
	setString(&c.GitHub.Owner, "BIOLINK_GITHUB_OWNER")
	setString(&c.GitHub.Repo, "BIOLINK_GITHUB_REPO")
	setString(&c.Log.Level, "BIOLINK_LOG_LEVEL")
}

// Validate checks enum fields after loading.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("invalid cache backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "memory", "mongo":
	default:
		return fmt.Errorf("invalid store backend %q (want memory or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.Mongo.URI == "" {
		return fmt.Errorf("store backend mongo requires a connection URI")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
