package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-dashboard/internal/errors"
)

func TestLoadCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, ProviderYahoo, cfg.Provider.Kind)
	assert.Equal(t, ":8050", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Display.TopN)
	assert.Equal(t, path, cfg.Path)

	// the written template loads back to the same settings
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Provider.Timeout, again.Provider.Timeout)
	assert.Equal(t, cfg.Display, again.Display)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[provider]
kind = "memory"
timeout = "3s"
history_range = "2y"

[display]
palette = "dark2"
top_n = 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsOffline())
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "2y", cfg.Provider.HistoryRange)
	assert.Equal(t, 10, cfg.Display.TopN)
	assert.Equal(t, "Hot", cfg.Display.Scale, "unset keys keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPTIONSDASH_PROVIDER", "MEMORY")
	t.Setenv("OPTIONSDASH_ADDR", "127.0.0.1:9999")
	t.Setenv("OPTIONSDASH_LOG_LEVEL", "debug")
	t.Setenv("OPTIONSDASH_YAHOO_BASE_URL", "http://localhost:1234")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderMemory, cfg.Provider.Kind)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:1234", cfg.Provider.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider kind", func(c *Config) { c.Provider.Kind = "bloomberg" }},
		{"timeout", func(c *Config) { c.Provider.Timeout = 0 }},
		{"rate limit", func(c *Config) { c.Provider.RateLimit = -1 }},
		{"history range", func(c *Config) { c.Provider.HistoryRange = "7d" }},
		{"addr", func(c *Config) { c.Server.Addr = "" }},
		{"palette", func(c *Config) { c.Display.Palette = "Neon" }},
		{"scale", func(c *Config) { c.Display.Scale = "Jet" }},
		{"top n", func(c *Config) { c.Display.TopN = 0 }},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[provider\nkind="), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLogConfigExpandsHome(t *testing.T) {
	cfg := Default()
	cfg.Logging.FilePath = "~/logs/x.log"
	got := cfg.Logging.LogConfig().FilePath
	assert.False(t, strings.HasPrefix(got, "~"))
	assert.True(t, strings.HasSuffix(got, filepath.Join("logs", "x.log")))
}
