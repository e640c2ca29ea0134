// Package config loads darkroom settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/darkroom/config.toml (falling back to
// ~/.config/darkroom/config.toml) unless a path is given explicitly. Every
// field is optional; missing fields keep the values from [Default].
//
//	[defaults]
//	paper_size = "11x14"
//	min_border = 0.75
//
//	[presets]
//	backend = "redis"
//	[presets.redis]
//	addr = "localhost:6379"
//
//	[features]
//	exposure = false
//
// The loaded Config is built once at startup and passed to the CLI and the
// server; nothing reads it through package-level state.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/errors"
)

const appName = "darkroom"

// Backend names.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Engine   EngineConfig   `toml:"engine"`
	Cache    CacheConfig    `toml:"cache"`
	Presets  PresetsConfig  `toml:"presets"`
	Server   ServerConfig   `toml:"server"`
	Features Features       `toml:"features"`
}

// DefaultsConfig holds the calculator values used when a flag is not set.
type DefaultsConfig struct {
	PaperSize   string  `toml:"paper_size"`
	AspectRatio string  `toml:"aspect_ratio"`
	MinBorder   float64 `toml:"min_border"`
	Landscape   bool    `toml:"landscape"`
}

// EngineConfig tunes the border engine.
type EngineConfig struct {
	EaselCacheSize int `toml:"easel_cache_size"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig addresses a MongoDB collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend"` // none, file or redis
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"` // 0 keeps the per-kind defaults
	Redis   RedisConfig   `toml:"redis"`
}

// PresetsConfig selects the preset store backend.
type PresetsConfig struct {
	Backend string      `toml:"backend"` // memory, file, redis or mongo
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: DefaultsConfig{
			PaperSize:   border.DefaultPaperSize,
			AspectRatio: border.DefaultAspectRatio,
			MinBorder:   border.DefaultMinBorder,
			Landscape:   true,
		},
		Engine: EngineConfig{EaselCacheSize: border.DefaultEaselCacheSize},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Presets: PresetsConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:            "localhost:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Features: AllFeatures(),
	}
}

// DefaultPath returns the XDG config file path.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path on top of Default. An empty path
// means DefaultPath, where a missing file is not an error; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML text on top of Default.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks backend names and numeric limits.
func (c Config) Validate() error {
	if c.Engine.EaselCacheSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.easel_cache_size must be positive, got %d", c.Engine.EaselCacheSize)
	}
	if err := oneOf("cache.backend", c.Cache.Backend, BackendNone, BackendFile, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("presets.backend", c.Presets.Backend, BackendMemory, BackendFile, BackendRedis, BackendMongo); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Presets.Backend == BackendRedis && c.Presets.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "presets.redis.addr is required for the redis backend")
	}
	if c.Presets.Backend == BackendMongo && c.Presets.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "presets.mongo.uri is required for the mongo backend")
	}
	if border.PaperIndex(c.Defaults.PaperSize) < 0 || c.Defaults.PaperSize == border.Custom {
		return errors.New(errors.ErrCodeInvalidConfig, "defaults.paper_size: unknown paper %q", c.Defaults.PaperSize)
	}
	if border.RatioIndex(c.Defaults.AspectRatio) < 0 || c.Defaults.AspectRatio == border.Custom {
		return errors.New(errors.ErrCodeInvalidConfig, "defaults.aspect_ratio: unknown ratio %q", c.Defaults.AspectRatio)
	}
	if err := errors.ValidateBorder("defaults.min_border", c.Defaults.MinBorder, false); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid defaults")
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %q (must be one of: %s)", field, v, strings.Join(allowed, ", "))
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := c.Write(&b); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
