package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  static_dir: "./public"

storage:
  path: "/var/lib/listkeeper/subscribers.json"
  s3_bucket: "listkeeper-backups"
  s3_region: "us-west-2"

cors:
  allowed_origins:
    - "https://signup.example.com"

rate_limit:
  enabled: true
  redis_url: "redis://localhost:6379/0"
  per_minute: 5

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "./public", cfg.Server.StaticDir)

	assert.Equal(t, "/var/lib/listkeeper/subscribers.json", cfg.Storage.Path)
	assert.Equal(t, "listkeeper-backups", cfg.Storage.S3Bucket)
	assert.Equal(t, "us-west-2", cfg.Storage.S3Region)
	assert.Equal(t, "subscribers.json", cfg.Storage.S3Key) // default

	assert.Equal(t, []string{"https://signup.example.com"}, cfg.CORS.AllowedOrigins)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RateLimit.RedisURL)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)

	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "data/subscribers.json", cfg.Storage.Path)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [not a mapping"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("STORAGE_PATH", "/tmp/subs.json")
	t.Setenv("REDIS_URL", "redis://10.0.0.1:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/subs.json", cfg.Storage.Path)
	assert.Equal(t, "redis://10.0.0.1:6379", cfg.RateLimit.RedisURL)
	assert.True(t, cfg.RateLimit.Enabled, "REDIS_URL implies rate limiting on")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}
