package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	policy := cfg.Planning.FuelPolicy()
	assert.Equal(t, 6, policy.DayStartHour)
	assert.Equal(t, 18, policy.NightStartHour)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090

[logging]
level = "debug"

[storage]
type = "memory"

[wx]
watch_stations = ["CYUL", "CYYZ"]
cache_expiry_minutes = 5

[planning]
day_start_hour = 7
night_start_hour = 19
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, []string{"CYUL", "CYYZ"}, cfg.Weather.WatchStations)
	assert.Equal(t, 5, cfg.Weather.CacheExpiryMinutes)
	assert.Equal(t, "https://aviationweather.gov/api/data", cfg.Weather.APIBaseURL)
	assert.Equal(t, 7, cfg.Planning.DayStartHour)

	lc := cfg.Logging.LoggerConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, 32, lc.MaxSizeMB)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `[server`))
	assert.Error(t, err)

	_, err = LoadWithFallback(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadWithFallbackSearchesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadWithFallback("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "config.toml"), []byte("[server]\nport = 7000\n"), 0o644))

	cfg, err = LoadWithFallback("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"duplicate port", func(c *Config) { c.Server.AdditionalPorts = []int{8080} }},
		{"missing static dir", func(c *Config) { c.Server.StaticFilesDir = "/definitely/not/here" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Storage.SQLitePath = "" }},
		{"bad weather", func(c *Config) { c.Weather.APIBaseURL = "" }},
		{"day hour out of range", func(c *Config) { c.Planning.DayStartHour = 24 }},
		{"night before day", func(c *Config) { c.Planning.NightStartHour = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
