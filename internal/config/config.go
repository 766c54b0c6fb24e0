// Package config provides configuration loading for projectctl.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete projectctl configuration.
type Config struct {
	Remote    RemoteConfig    `koanf:"remote"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// RemoteConfig configures the client for the remote project service.
type RemoteConfig struct {
	BaseURL string   `koanf:"base_url"`
	Token   Secret   `koanf:"token"`
	Timeout Duration `koanf:"timeout"`

	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`

	// BreakerFailures is the number of consecutive transport failures that
	// open the circuit.
	BreakerFailures uint32   `koanf:"breaker_failures"`
	BreakerTimeout  Duration `koanf:"breaker_timeout"`
}

// ServerConfig holds the reference project service settings used by serve.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig selects log level and encoder.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig configures OTLP export of traces and metrics. Disabled by
// default.
type TelemetryConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`

	// Protocol is "grpc" or "http/protobuf".
	Protocol string `koanf:"protocol"`

	// Insecure disables TLS. Only allowed for local endpoints.
	Insecure        bool     `koanf:"insecure"`
	SampleRate      float64  `koanf:"sample_rate"`
	ExportInterval  Duration `koanf:"export_interval"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("remote.base_url must be an absolute URL, got %q", c.Remote.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("remote.base_url scheme must be http or https, got %q", u.Scheme))
	}
	if c.Remote.Timeout.Duration() <= 0 {
		errs = append(errs, errors.New("remote.timeout must be positive"))
	}
	if c.Remote.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("remote.rate_limit must be >= 0, got %v", c.Remote.RateLimit))
	}
	if c.Remote.RateLimit > 0 && c.Remote.Burst < 1 {
		errs = append(errs, fmt.Errorf("remote.burst must be >= 1 when rate limiting, got %d", c.Remote.Burst))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = "http://localhost:3001"
	}
	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = Duration(30 * time.Second)
	}
	if cfg.Remote.RateLimit > 0 && cfg.Remote.Burst == 0 {
		cfg.Remote.Burst = 1
	}
	if cfg.Remote.BreakerFailures == 0 {
		cfg.Remote.BreakerFailures = 5
	}
	if cfg.Remote.BreakerTimeout == 0 {
		cfg.Remote.BreakerTimeout = Duration(30 * time.Second)
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = Duration(15 * time.Second)
	}
	if cfg.Telemetry.ShutdownTimeout == 0 {
		cfg.Telemetry.ShutdownTimeout = Duration(5 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks telemetry settings. Nothing is checked when disabled.
func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return errors.New("telemetry.endpoint is required when telemetry is enabled")
	}
	if c.Protocol != "grpc" && c.Protocol != "http/protobuf" {
		return fmt.Errorf("telemetry.protocol must be grpc or http/protobuf, got %q", c.Protocol)
	}
	if c.Insecure && !isLocalEndpoint(c.Endpoint) {
		return errors.New("telemetry.insecure is only allowed for local endpoints (localhost/127.0.0.1)")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %f", c.SampleRate)
	}
	if c.ExportInterval.Duration() <= 0 {
		return errors.New("telemetry.export_interval must be positive")
	}
	if c.ShutdownTimeout.Duration() <= 0 {
		return errors.New("telemetry.shutdown_timeout must be positive")
	}
	return nil
}

// isLocalEndpoint reports whether a host:port endpoint is a loopback address.
func isLocalEndpoint(endpoint string) bool {
	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	return host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.")
}
