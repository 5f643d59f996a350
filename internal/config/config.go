// Package config loads runtime settings for the pulse CLI from an optional
// YAML file, then applies CAMPUSPULSE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	DefaultSQLitePath   = "campuspulse.db"
	DefaultRedisAddr    = "localhost:6379"
	DefaultRedisChannel = "campus-pulse:storage"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSlowQueryMs  = 50
	DefaultRingSize     = 4096
)

// ErrInvalidConfig is wrapped by every validation failure from Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Perf    PerfConfig    `yaml:"perf"`
}

// StorageConfig selects the durable backend and its change channel.
type StorageConfig struct {
	Backend      string        `yaml:"backend"`
	SQLitePath   string        `yaml:"sqlite_path"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Redis        RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PerfConfig tunes the storage timing wrapper.
type PerfConfig struct {
	SlowQueryMs int `yaml:"slow_query_ms"`
	RingSize    int `yaml:"ring_size"`
}

// Load reads filename when it exists, applies environment overrides and
// fills defaults.
// PRE: filename may be empty or point at a missing file
// POST: returned config has every field populated and a known backend
func Load(filename string) (*Config, error) {
	cfg := &Config{}
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// env and defaults only
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", filename, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", filename, err)
			}
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv("CAMPUSPULSE_" + name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v := getenv("CAMPUSPULSE_" + name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CAMPUSPULSE_%s=%q is not an integer", ErrInvalidConfig, name, v)
		}
		*dst = n
		return nil
	}

	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("SQLITE_PATH", &cfg.Storage.SQLitePath)
	str("REDIS_ADDR", &cfg.Storage.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	str("REDIS_CHANNEL", &cfg.Storage.Redis.Channel)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v := getenv("CAMPUSPULSE_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CAMPUSPULSE_POLL_INTERVAL=%q: %w", ErrInvalidConfig, v, err)
		}
		cfg.Storage.PollInterval = d
	}
	for name, dst := range map[string]*int{
		"REDIS_DB":      &cfg.Storage.Redis.DB,
		"SLOW_QUERY_MS": &cfg.Perf.SlowQueryMs,
		"PERF_RING":     &cfg.Perf.RingSize,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func (c *Config) applyDefaults() {
	c.Storage.Backend = strings.ToLower(orDefault(c.Storage.Backend, BackendSQLite))
	c.Storage.SQLitePath = orDefault(c.Storage.SQLitePath, DefaultSQLitePath)
	c.Storage.PollInterval = orDefault(c.Storage.PollInterval, DefaultPollInterval)
	c.Storage.Redis.Addr = orDefault(c.Storage.Redis.Addr, DefaultRedisAddr)
	c.Storage.Redis.Channel = orDefault(c.Storage.Redis.Channel, DefaultRedisChannel)
	c.Log.Level = strings.ToLower(orDefault(c.Log.Level, DefaultLogLevel))
	c.Log.Format = strings.ToLower(orDefault(c.Log.Format, DefaultLogFormat))
	c.Perf.SlowQueryMs = orDefault(c.Perf.SlowQueryMs, DefaultSlowQueryMs)
	c.Perf.RingSize = orDefault(c.Perf.RingSize, DefaultRingSize)
}

// Validate rejects unknown enum values and non-positive intervals.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
