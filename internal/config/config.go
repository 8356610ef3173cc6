// Package config provides configuration management for the authorization
// service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backend types.
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Config is the top-level service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Policy PolicyConfig `yaml:"policy"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// ReadTimeout bounds reading the request.
	ReadTimeout Duration `yaml:"readTimeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout Duration `yaml:"writeTimeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// PolicyConfig configures the policy source.
type PolicyConfig struct {
	// Path is the JSON policy file.
	Path string `yaml:"path"`

	// Watch enables hot reload on file change.
	Watch bool `yaml:"watch"`

	// DebounceDelay coalesces rapid file events before reloading.
	DebounceDelay Duration `yaml:"debounceDelay"`
}

// CacheConfig configures decision caching.
type CacheConfig struct {
	// Enabled turns decision caching on.
	Enabled bool `yaml:"enabled"`

	// Type selects the backend: "memory" or "redis".
	Type string `yaml:"type"`

	// TTL is how long decisions stay cached.
	TTL Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend.
	MaxEntries int `yaml:"maxEntries"`

	// Redis configures the redis backend.
	Redis *RedisCacheConfig `yaml:"redis,omitempty"`
}

// RedisCacheConfig configures the redis cache backend.
type RedisCacheConfig struct {
	// URL is a redis connection URL, e.g. "redis://localhost:6379/0".
	URL string `yaml:"url"`

	// KeyPrefix namespaces cache keys.
	KeyPrefix string `yaml:"keyPrefix"`

	// PoolSize overrides the client connection pool size.
	PoolSize int `yaml:"poolSize"`

	// ConnectTimeout bounds dialing.
	ConnectTimeout Duration `yaml:"connectTimeout"`

	// ReadTimeout bounds reads.
	ReadTimeout Duration `yaml:"readTimeout"`

	// WriteTimeout bounds writes.
	WriteTimeout Duration `yaml:"writeTimeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(5 * time.Second),
			WriteTimeout:    Duration(10 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Policy: PolicyConfig{
			Path:          "policies.json",
			Watch:         true,
			DebounceDelay: Duration(100 * time.Millisecond),
		},
		Cache: CacheConfig{
			Enabled:    true,
			Type:       CacheTypeMemory,
			TTL:        Duration(5 * time.Minute),
			MaxEntries: 10000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load reads, parses, and validates a YAML configuration file. Unknown
// fields are rejected. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Policy.Path == "" {
		return fmt.Errorf("policy.path is required")
	}

	if c.Cache.Enabled {
		switch c.Cache.Type {
		case CacheTypeMemory, "":
		case CacheTypeRedis:
			if c.Cache.Redis == nil || c.Cache.Redis.URL == "" {
				return fmt.Errorf("cache.redis.url is required for redis cache")
			}
		default:
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
		if c.Cache.TTL < 0 {
			return fmt.Errorf("cache.ttl must not be negative")
		}
	}

	return nil
}
