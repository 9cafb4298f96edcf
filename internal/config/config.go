// Package config loads the dashboard configuration from TOML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/logging"
	"options-dashboard/internal/palette"
	"options-dashboard/internal/provider"
)

// Provider kinds.
const (
	ProviderYahoo  = "yahoo"
	ProviderMemory = "memory"
)

// Config is the complete application configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Server   ServerConfig   `mapstructure:"server"`
	Display  DisplayConfig  `mapstructure:"display"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Path is the file the configuration was read from, if any.
	Path string `mapstructure:"-"`
}

// ProviderConfig selects and tunes the quote provider.
type ProviderConfig struct {
	Kind         string        `mapstructure:"kind"` // yahoo, memory
	BaseURL      string        `mapstructure:"base_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second
	Burst        int           `mapstructure:"burst"`
	HistoryRange string        `mapstructure:"history_range"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Compression  bool          `mapstructure:"compression"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DisplayConfig holds presentation defaults.
type DisplayConfig struct {
	DefaultTicker string `mapstructure:"default_ticker"`
	Palette       string `mapstructure:"palette"`
	Scale         string `mapstructure:"scale"`
	TopN          int    `mapstructure:"top_n"`
}

// LoggingConfig mirrors logging.LogConfig.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// LogConfig converts to the logging package's configuration.
func (l LoggingConfig) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      l.Level,
		Console:    l.Console,
		File:       l.File,
		FilePath:   expandHome(l.FilePath),
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// YahooConfig converts to the Yahoo provider configuration.
func (p ProviderConfig) YahooConfig() provider.YahooConfig {
	return provider.YahooConfig{
		BaseURL:   p.BaseURL,
		UserAgent: p.UserAgent,
		Timeout:   p.Timeout,
		RateLimit: p.RateLimit,
		Burst:     p.Burst,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-dashboard"
	}
	return filepath.Join(home, ".config", "options-dashboard")
}

// DefaultConfigPath returns the default configuration file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

func setDefaults(v *viper.Viper) {
	logs := logging.DefaultLogConfig()

	v.SetDefault("provider.kind", ProviderYahoo)
	v.SetDefault("provider.base_url", provider.DefaultYahooBaseURL)
	v.SetDefault("provider.user_agent", provider.DefaultYahooUserAgent)
	v.SetDefault("provider.timeout", provider.DefaultYahooTimeout)
	v.SetDefault("provider.rate_limit", 2.0)
	v.SetDefault("provider.burst", 4)
	v.SetDefault("provider.history_range", "1y")

	v.SetDefault("server.addr", ":8050")
	v.SetDefault("server.compression", true)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("display.default_ticker", "AAPL")
	v.SetDefault("display.palette", palette.DefaultDiscrete)
	v.SetDefault("display.scale", palette.DefaultContinuous)
	v.SetDefault("display.top_n", 20)

	v.SetDefault("logging.level", logs.Level)
	v.SetDefault("logging.console", logs.Console)
	v.SetDefault("logging.file", logs.File)
	v.SetDefault("logging.file_path", logs.FilePath)
	v.SetDefault("logging.max_size", logs.MaxSize)
	v.SetDefault("logging.max_backups", logs.MaxBackups)
	v.SetDefault("logging.max_age", logs.MaxAge)
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads the configuration file at path (the default path when empty).
// A missing file is created from the template and the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if err := createTemplateConfig(path); err != nil {
				return nil, fmt.Errorf("creating config template: %w", err)
			}
		default:
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	cfg.Path = path

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONSDASH_PROVIDER"); v != "" {
		cfg.Provider.Kind = v
	}
	if v := os.Getenv("OPTIONSDASH_YAHOO_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("OPTIONSDASH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OPTIONSDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	kind := strings.ToLower(c.Provider.Kind)
	if kind != ProviderYahoo && kind != ProviderMemory {
		return invalid("provider.kind", c.Provider.Kind, "must be 'yahoo' or 'memory'")
	}
	c.Provider.Kind = kind

	if c.Provider.Timeout <= 0 {
		return invalid("provider.timeout", c.Provider.Timeout, "must be positive")
	}
	if c.Provider.RateLimit < 0 {
		return invalid("provider.rate_limit", c.Provider.RateLimit, "must be non-negative")
	}
	if c.Provider.Burst < 0 {
		return invalid("provider.burst", c.Provider.Burst, "must be non-negative")
	}
	if c.Provider.HistoryRange != "" && !provider.ValidRange(c.Provider.HistoryRange) {
		return invalid("provider.history_range", c.Provider.HistoryRange, "unknown range")
	}

	if c.Server.Addr == "" {
		return invalid("server.addr", c.Server.Addr, "cannot be empty")
	}

	if _, err := palette.LookupDiscrete(c.Display.Palette); err != nil {
		return invalid("display.palette", c.Display.Palette, err.Error())
	}
	if _, err := palette.LookupScale(c.Display.Scale); err != nil {
		return invalid("display.scale", c.Display.Scale, err.Error())
	}
	if c.Display.TopN < 1 {
		return invalid("display.top_n", c.Display.TopN, "must be at least 1")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}

	return nil
}

func invalid(field string, value interface{}, msg string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrConfigInvalid, apperrors.NewValidationError(field, value, msg).Error())
}

// IsOffline reports whether the in-memory provider is selected.
func (c *Config) IsOffline() bool {
	return c.Provider.Kind == ProviderMemory
}
