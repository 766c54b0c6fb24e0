package config

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Zero(t, cfg.Remote.RateLimit)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"relative url", func(c *Config) { c.Remote.BaseURL = "/api" }, true},
		{"bad scheme", func(c *Config) { c.Remote.BaseURL = "ftp://host" }, true},
		{"zero timeout", func(c *Config) { c.Remote.Timeout = 0 }, true},
		{"negative rate", func(c *Config) { c.Remote.RateLimit = -1 }, true},
		{"rate without burst", func(c *Config) { c.Remote.RateLimit = 1; c.Remote.Burst = 0 }, true},
		{"rate with burst", func(c *Config) { c.Remote.RateLimit = 1; c.Remote.Burst = 2 }, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults_BurstFollowsRate(t *testing.T) {
	cfg := &Config{Remote: RemoteConfig{RateLimit: 4}}
	applyDefaults(cfg)
	assert.Equal(t, 1, cfg.Remote.Burst)
}

func TestSecret_Redacts(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())
	assert.NotContains(t, fmt.Sprintf("%v %s %#v", s, s, s), "hunter2")

	b, err := json.Marshal(RemoteConfig{Token: s})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Token":"[REDACTED]"`)
	assert.NotContains(t, string(b), "hunter2")

	assert.Equal(t, "", Secret("").String())
	assert.False(t, Secret("").IsSet())
}

func TestSecret_UnmarshalTextTrims(t *testing.T) {
	var s Secret
	require.NoError(t, s.UnmarshalText([]byte("  tok-123\n")))
	assert.Equal(t, "tok-123", s.Value())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "1m30s", want: 90 * time.Second},
		{in: " 250ms ", want: 250 * time.Millisecond},
		{in: "0s", want: 0},
		{in: "-1s", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_TextRoundTrip(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))

	var d Duration
	require.NoError(t, d.UnmarshalText(b))
	assert.Equal(t, 90*time.Second, d.Duration())
}

func TestTelemetryConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*TelemetryConfig)
		wantErr string
	}{
		{name: "disabled skips checks", modify: func(c *TelemetryConfig) { c.Enabled = false; c.Protocol = "bogus" }},
		{name: "enabled defaults", modify: func(c *TelemetryConfig) {}},
		{name: "http protocol", modify: func(c *TelemetryConfig) { c.Protocol = "http/protobuf" }},
		{name: "insecure loopback", modify: func(c *TelemetryConfig) { c.Insecure = true; c.Endpoint = "127.0.0.1:4317" }},
		{name: "insecure localhost url", modify: func(c *TelemetryConfig) { c.Insecure = true; c.Endpoint = "http://localhost:4318" }},
		{name: "empty endpoint", modify: func(c *TelemetryConfig) { c.Endpoint = "" }, wantErr: "endpoint"},
		{name: "unknown protocol", modify: func(c *TelemetryConfig) { c.Protocol = "udp" }, wantErr: "protocol"},
		{name: "insecure remote", modify: func(c *TelemetryConfig) { c.Insecure = true; c.Endpoint = "otel.example.com:4317" }, wantErr: "insecure"},
		{name: "sample rate too high", modify: func(c *TelemetryConfig) { c.SampleRate = 1.5 }, wantErr: "sample_rate"},
		{name: "zero interval", modify: func(c *TelemetryConfig) { c.ExportInterval = 0 }, wantErr: "export_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default().Telemetry
			cfg.Enabled = true
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefault_Telemetry(t *testing.T) {
	cfg := Default().Telemetry

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 15*time.Second, cfg.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout.Duration())
}
