package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"insurance-dashboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_PORT", "ALLOWED_ORIGINS", "SESSION_SECRET", "SESSION_TTL",
	"SESSION_PURGE_INTERVAL", "COOKIE_SECURE", "LOG_LEVEL", "LOG_FILE",
	"LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), *cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  allowed_origins: "https://ventes.example"
session:
  ttl: 10m
  cookie_secure: false
log:
  level: debug
  file: logs/dashboard.log
`), 0o600))
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port, "env overrides file")
	assert.Equal(t, "https://ventes.example", cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.PurgeInterval, "unset keys keep defaults")
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "logs/dashboard.log", cfg.Log.File)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad port", key: "SERVER_PORT", val: "http"},
		{name: "port out of range", key: "SERVER_PORT", val: "70000"},
		{name: "bad ttl", key: "SESSION_TTL", val: "forever"},
		{name: "zero ttl", key: "SESSION_TTL", val: "0s"},
		{name: "bad bool", key: "COOKIE_SECURE", val: "maybe"},
		{name: "bad int", key: "LOG_MAX_BACKUPS", val: "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := config.LoadFromFile("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
