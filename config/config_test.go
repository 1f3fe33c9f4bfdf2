package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  dsn: ":memory:"
jwt:
  secret: file-secret
cache:
  feed_ttl: 30m
`), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("APP_JWT_SECRET", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.FeedTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
			JWT:      JWTConfig{Secret: "s", TTL: time.Hour},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.JWT.Secret = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Mode = "release"
	c.JWT.Secret = "dev-secret-change-me"
	assert.Error(t, c.Validate())

	c = base()
	c.RateLimit = RateLimitConfig{Enabled: true}
	assert.Error(t, c.Validate())
}
