// Package config provides Viper-based configuration management for whereisit
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WHEREISIT_API_BASE_URL.
const EnvPrefix = "WHEREISIT"

// AllowedLimits are the page sizes the listing feed offers.
var AllowedLimits = []int{6, 7, 8, 9}

// Config represents the complete whereisit configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" yaml:"api" json:"api"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth" json:"auth"`
	Browse    BrowseConfig    `mapstructure:"browse" yaml:"browse" json:"browse"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging" json:"logging"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output" json:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry" json:"telemetry"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail" yaml:"thumbnail" json:"thumbnail"`
}

// APIConfig contains listing API client settings
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	Burst     int           `mapstructure:"burst" yaml:"burst" json:"burst"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent"`
}

// AuthConfig contains identity provider settings
type AuthConfig struct {
	KratosURL    string        `mapstructure:"kratos_url" yaml:"kratos_url" json:"kratos_url"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	RevokeOnExit bool          `mapstructure:"revoke_on_exit" yaml:"revoke_on_exit" json:"revoke_on_exit"`
}

// BrowseConfig contains listing feed defaults
type BrowseConfig struct {
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit" json:"default_limit"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool   `mapstructure:"colors" yaml:"colors" json:"colors"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// TelemetryConfig contains OpenTelemetry export settings
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio" json:"sample_ratio"`
}

// ThumbnailConfig contains thumbnail probe settings
type ThumbnailConfig struct {
	MaxBytes  int64         `mapstructure:"max_bytes" yaml:"max_bytes" json:"max_bytes"`
	CacheSize int           `mapstructure:"cache_size" yaml:"cache_size" json:"cache_size"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// Load reads configuration from file, .env and environment variables
func Load(cfgFile string) (*Config, error) {
	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".whereisit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/whereisit")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.burst", 20)
	v.SetDefault("api.user_agent", "whereisit-cli")

	// Identity provider defaults
	v.SetDefault("auth.kratos_url", "http://localhost:4433")
	v.SetDefault("auth.timeout", 10*time.Second)
	v.SetDefault("auth.revoke_on_exit", true)

	v.SetDefault("browse.default_limit", 6)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	// Output defaults
	v.SetDefault("output.colors", true)
	v.SetDefault("output.format", "table")

	// Telemetry is opt-in
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("thumbnail.max_bytes", int64(5<<20))
	v.SetDefault("thumbnail.cache_size", 128)
	v.SetDefault("thumbnail.timeout", 5*time.Second)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if err := validateURL("api.base_url", cfg.API.BaseURL); err != nil {
		return err
	}
	if err := validateURL("auth.kratos_url", cfg.Auth.KratosURL); err != nil {
		return err
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", cfg.API.Timeout)
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative: %v", cfg.API.RateLimit)
	}
	if cfg.API.RateLimit > 0 && cfg.API.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1 when api.rate_limit is set: %d", cfg.API.Burst)
	}

	if !slices.Contains(AllowedLimits, cfg.Browse.DefaultLimit) {
		return fmt.Errorf("invalid browse.default_limit: %d (must be one of 6, 7, 8, 9)", cfg.Browse.DefaultLimit)
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table, json, or yaml)", cfg.Output.Format)
	}

	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be within [0, 1]: %v", cfg.Telemetry.SampleRatio)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint is required when telemetry is enabled")
	}

	if cfg.Thumbnail.MaxBytes <= 0 {
		return fmt.Errorf("thumbnail.max_bytes must be positive: %d", cfg.Thumbnail.MaxBytes)
	}
	if cfg.Thumbnail.CacheSize < 1 {
		return fmt.Errorf("thumbnail.cache_size must be at least 1: %d", cfg.Thumbnail.CacheSize)
	}

	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL: %q", key, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https: %q", key, raw)
	}
	return nil
}
