// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/i18n"
)

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Validation ValidationConfig `yaml:"validation"`
	Cache      CacheConfig      `yaml:"cache"`
	Generation GenerationConfig `yaml:"generation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ValidationConfig bounds document validation.
type ValidationConfig struct {
	MaxDepth            int    `yaml:"max_depth"`
	MaxNesting          int    `yaml:"max_nesting"`
	MaxBytes            int64  `yaml:"max_bytes"`
	RejectDuplicateKeys bool   `yaml:"reject_duplicate_keys"`
	Language            string `yaml:"language"` // "en" or "pt"
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// GenerationConfig configures the generate and validate loop.
type GenerationConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{
		Validation: ValidationConfig{RejectDuplicateKeys: true},
		Cache:      CacheConfig{Enabled: true},
		Metrics:    MetricsConfig{Enabled: true},
	}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded, then UISKEMA_* overrides are applied. An empty path
// loads the defaults with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		data = []byte(os.ExpandEnv(string(data)))

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Limits converts the validation section into validator limits.
func (c *Config) Limits() uiskema.ValidateOpt {
	return uiskema.ValidateOpt{
		MaxDepth:           c.Validation.MaxDepth,
		MaxNesting:         c.Validation.MaxNesting,
		MaxBytes:           c.Validation.MaxBytes,
		AllowDuplicateKeys: !c.Validation.RejectDuplicateKeys,
	}
}

func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("UISKEMA_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("UISKEMA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("UISKEMA_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("UISKEMA_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Validation configuration
	if v := os.Getenv("UISKEMA_VALIDATION_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Validation.MaxDepth = n
		}
	}
	if v := os.Getenv("UISKEMA_VALIDATION_MAX_NESTING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Validation.MaxNesting = n
		}
	}
	if v := os.Getenv("UISKEMA_VALIDATION_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Validation.MaxBytes = n
		}
	}
	if v := os.Getenv("UISKEMA_VALIDATION_REJECT_DUPLICATE_KEYS"); v != "" {
		cfg.Validation.RejectDuplicateKeys = parseBool(v)
	}
	if v := os.Getenv("UISKEMA_VALIDATION_LANGUAGE"); v != "" {
		cfg.Validation.Language = v
	}

	// Cache configuration
	if v := os.Getenv("UISKEMA_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("UISKEMA_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Size = n
		}
	}

	if v := os.Getenv("UISKEMA_GENERATION_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generation.MaxAttempts = n
		}
	}

	// Logging configuration
	if v := os.Getenv("UISKEMA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("UISKEMA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("UISKEMA_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("UISKEMA_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}

	if cfg.Validation.MaxDepth == 0 {
		cfg.Validation.MaxDepth = uiskema.DefaultMaxDepth
	}
	if cfg.Validation.MaxNesting == 0 {
		cfg.Validation.MaxNesting = uiskema.DefaultMaxNesting
	}
	if cfg.Validation.MaxBytes == 0 {
		cfg.Validation.MaxBytes = uiskema.DefaultMaxBytes
	}
	if cfg.Validation.Language == "" {
		cfg.Validation.Language = "en"
	}

	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 1024
	}
	if cfg.Generation.MaxAttempts == 0 {
		cfg.Generation.MaxAttempts = 3
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Validation.MaxDepth < 0 || cfg.Validation.MaxNesting < 0 || cfg.Validation.MaxBytes < 0 {
		return fmt.Errorf("validation limits must not be negative")
	}
	if cfg.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", cfg.Cache.Size)
	}
	if cfg.Generation.MaxAttempts < 0 {
		return fmt.Errorf("generation.max_attempts must not be negative, got %d", cfg.Generation.MaxAttempts)
	}

	validLanguage := false
	for _, l := range i18n.Languages() {
		if cfg.Validation.Language == l {
			validLanguage = true
		}
	}
	if !validLanguage {
		return fmt.Errorf("validation.language must be one of %s, got %q", strings.Join(i18n.Languages(), ", "), cfg.Validation.Language)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}
	return nil
}
