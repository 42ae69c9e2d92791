// Package config loads arbor settings from TOML or YAML files and ARBOR_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment. The result is validated before it is returned.
//
//	cfg, err := config.Load("arbor.toml")
//	cfg, err := config.Load("")  // defaults + environment only
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/arbor/pkg/errors"
)

const appName = "arbor"

// Config is the complete arbor configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Store  StoreConfig  `toml:"store" yaml:"store"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// LayoutConfig holds default layout options.
type LayoutConfig struct {
	Algorithm   string  `toml:"algorithm" yaml:"algorithm" validate:"oneof=cluster tidy"`
	Width       float64 `toml:"width" yaml:"width" validate:"gt=0"`
	Height      float64 `toml:"height" yaml:"height" validate:"gt=0"`
	Separation  string  `toml:"separation" yaml:"separation" validate:"oneof=uniform sibling"`
	Orientation string  `toml:"orientation" yaml:"orientation" validate:"oneof=top-down left-right"`
	NodeWidth   float64 `toml:"node_width" yaml:"node_width" validate:"gte=0"`
	NodeHeight  float64 `toml:"node_height" yaml:"node_height" validate:"gte=0"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" yaml:"backend" validate:"oneof=file redis none"`
	Dir           string        `toml:"dir" yaml:"dir"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db" validate:"gte=0"`
	Prefix        string        `toml:"prefix" yaml:"prefix"`
	Compress      bool          `toml:"compress" yaml:"compress"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// StoreConfig selects and configures the layout store.
type StoreConfig struct {
	Backend         string `toml:"backend" yaml:"backend" validate:"oneof=memory file mongo"`
	Dir             string `toml:"dir" yaml:"dir"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `toml:"addr" yaml:"addr" validate:"required"`
	ReadTimeout    time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	ListLimit      int           `toml:"list_limit" yaml:"list_limit" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"oneof=text json logfmt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Algorithm:   "cluster",
			Width:       960,
			Height:      500,
			Separation:  "uniform",
			Orientation: "left-right",
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     DefaultCacheDir(),
			Prefix:  appName + ":",
			TTL:     7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Backend: "memory",
			Dir:     DefaultStoreDir(),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 20 * time.Second,
			MaxBodyBytes:   10 << 20,
			ListLimit:      50,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads defaults, then the file at path (if non-empty), then the
// environment, and validates the result. The format is chosen by
// extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := errors.ValidateStruct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config")
	}
	if (c.Layout.NodeWidth > 0) != (c.Layout.NodeHeight > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid config: node_width and node_height must be set together")
	}
	return nil
}

func (c *Config) readFile(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/arbor/). Returns "" if no home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}

// DefaultStoreDir returns the directory of the file store
// (~/.config/arbor/layouts, honouring XDG_CONFIG_HOME).
func DefaultStoreDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "layouts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "layouts")
}

// DefaultPath returns the config file looked up when --config is not
// given (~/.config/arbor/config.toml, honouring XDG_CONFIG_HOME).
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
