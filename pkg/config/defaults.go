package config

import (
	"strings"
	"time"

	"github.com/structfs/structfs/internal/bytesize"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyMetricsDefaults(&cfg.Metrics)
	applyBrokerDefaults(&cfg.Broker)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	if len(cfg.Bootstrap) == 0 {
		cfg.Bootstrap = DefaultBootstrap()
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyServerDefaults sets control/health server defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Enabled == nil {
		enabled := true
		cfg.Enabled = &enabled
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
}

// applyMetricsDefaults sets metrics defaults: Enabled defaults to true.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled == nil {
		enabled := true
		cfg.Enabled = &enabled
	}
}

// applyBrokerDefaults sets HTTP broker/HTTP Store transport defaults.
func applyBrokerDefaults(cfg *BrokerConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxResponseSize == 0 {
		cfg.MaxResponseSize = 10 * bytesize.MB
	}
}

// DefaultBootstrap returns the reference composition (spec.md §6.3) applied
// when no bootstrap list is configured: the system, broker, register, and
// help mounts.
func DefaultBootstrap() []BootstrapMount {
	return []BootstrapMount{
		{Name: "ctx/sys", Type: "sys"},
		{Name: "ctx/http", Type: "http_broker"},
		{Name: "ctx/registers", Type: "registers"},
		{Name: "ctx/help", Type: "help"},
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// Useful for generating sample configuration files, tests, and
// documentation.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
