package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Store layouts.
const (
	LayoutSnapshot = "snapshot"
	LayoutIndexed  = "indexed"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// ErrInvalid is returned by Validate for unusable configurations.
var ErrInvalid = errors.New("invalid config")

// Config represents the global ~/.wpp-local/config.toml.
type Config struct {
	DefaultProfile string      `toml:"default_profile"`
	Store          StoreConfig `toml:"store"`
	Redis          RedisConfig `toml:"redis"`
	Log            LogConfig   `toml:"log"`
	Demo           DemoConfig  `toml:"demo"`
}

// StoreConfig selects how records are laid out and where they are kept.
type StoreConfig struct {
	// Layout is "snapshot" (four JSON keys in the key-value storage) or
	// "indexed" (per-entity sqlite tables).
	Layout string `toml:"layout"`
	Driver string `toml:"driver"`
}

// RedisConfig configures the redis key-value driver.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// DemoConfig controls first-run fixture data.
type DemoConfig struct {
	Seed *bool `toml:"seed"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// SeedDemo reports whether demo data should be written on first run.
func (c *Config) SeedDemo() bool {
	return c.Demo.Seed == nil || *c.Demo.Seed
}

func (c *Config) applyDefaults() {
	if c.Store.Layout == "" {
		c.Store.Layout = LayoutSnapshot
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the store layout and driver combination.
func (c *Config) Validate() error {
	switch c.Store.Layout {
	case LayoutSnapshot, LayoutIndexed:
	default:
		return fmt.Errorf("%w: unknown store layout %q", ErrInvalid, c.Store.Layout)
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalid, c.Store.Driver)
	}
	if c.Store.Layout == LayoutIndexed && c.Store.Driver != DriverSQLite {
		return fmt.Errorf("%w: layout %q requires driver %q", ErrInvalid, LayoutIndexed, DriverSQLite)
	}
	return nil
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default when the file
// does not exist. Unset fields are filled with defaults and the result is validated.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
