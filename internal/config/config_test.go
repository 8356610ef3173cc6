package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server:
  addr: ":9090"
  readTimeout: 2s
policy:
  path: /etc/aviam/policies.json
  watch: false
cache:
  enabled: true
  type: redis
  ttl: 1m
  redis:
    url: redis://localhost:6379/0
    keyPrefix: "aviam:"
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout.Duration())
	// Defaults survive for fields the file omits.
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout.Duration())
	assert.Equal(t, "/etc/aviam/policies.json", cfg.Policy.Path)
	assert.False(t, cfg.Policy.Watch)
	assert.Equal(t, CacheTypeRedis, cfg.Cache.Type)
	assert.Equal(t, time.Minute, cfg.Cache.TTL.Duration())
	require.NotNil(t, cfg.Cache.Redis)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.Redis.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UnknownField(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server:
  addr: ":8080"
bogus: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server:
  readTimeout: fast
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "missing policy path",
			mutate:  func(c *Config) { c.Policy.Path = "" },
			wantErr: "policy.path",
		},
		{
			name: "redis cache without url",
			mutate: func(c *Config) {
				c.Cache.Type = CacheTypeRedis
				c.Cache.Redis = nil
			},
			wantErr: "cache.redis.url",
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "unknown cache type",
		},
		{
			name:   "disabled cache skips cache checks",
			mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.Type = "memcached" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
