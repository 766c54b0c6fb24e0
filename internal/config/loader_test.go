package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHome points HOME at a temp dir and returns the projectctl config dir.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "projectctl")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	setupHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", cfg.Remote.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout.Duration())
	assert.Equal(t, uint32(5), cfg.Remote.BreakerFailures)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_YAML(t *testing.T) {
	dir := setupHome(t)
	path := writeConfig(t, dir, `
remote:
  base_url: https://projects.example.com
  token: abc123
  timeout: 5s
  rate_limit: 2.5
  burst: 3
  breaker_failures: 2
  breaker_timeout: 1m
server:
  host: 0.0.0.0
  http_port: 8088
  shutdown_timeout: 3s
logging:
  level: debug
  format: json
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://projects.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "abc123", cfg.Remote.Token.Value())
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout.Duration())
	assert.InDelta(t, 2.5, cfg.Remote.RateLimit, 0.001)
	assert.Equal(t, 3, cfg.Remote.Burst)
	assert.Equal(t, uint32(2), cfg.Remote.BreakerFailures)
	assert.Equal(t, time.Minute, cfg.Remote.BreakerTimeout.Duration())
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	dir := setupHome(t)
	path := writeConfig(t, dir, "remote:\n  base_url: http://file.example\n", 0600)

	t.Setenv("REMOTE_BASE_URL", "http://env.example:9000")
	t.Setenv("SERVER_HTTP_PORT", "7070")
	t.Setenv("LOGGING_LEVEL", "error")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example:9000", cfg.Remote.BaseURL)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadWithFile_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) string
		wantErr string
	}{
		{
			name: "outside allowed dirs",
			setup: func(t *testing.T, _ string) string {
				return filepath.Join(t.TempDir(), "config.yaml")
			},
			wantErr: "path validation",
		},
		{
			name: "traversal",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "..", "..", "evil.yaml")
			},
			wantErr: "path validation",
		},
		{
			name: "world readable",
			setup: func(t *testing.T, dir string) string {
				return writeConfig(t, dir, "server:\n  http_port: 1\n", 0644)
			},
			wantErr: "insecure config file permissions",
		},
		{
			name: "too large",
			setup: func(t *testing.T, dir string) string {
				return writeConfig(t, dir, "# "+strings.Repeat("x", maxConfigFileSize), 0600)
			},
			wantErr: "too large",
		},
		{
			name: "invalid yaml",
			setup: func(t *testing.T, dir string) string {
				return writeConfig(t, dir, "remote: [unterminated", 0600)
			},
			wantErr: "failed to load config file",
		},
		{
			name: "invalid url",
			setup: func(t *testing.T, dir string) string {
				return writeConfig(t, dir, "remote:\n  base_url: ftp://x\n", 0600)
			},
			wantErr: "scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupHome(t)
			_, err := LoadWithFile(tt.setup(t, dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"REMOTE_BASE_URL", "remote.base_url"},
		{"SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"LOGGING_FORMAT", "logging.format"},
		{"TELEMETRY_SAMPLE_RATE", "telemetry.sample_rate"},
		{"PATH", ""},
		{"HOME_DIR", ""},
		{"REMOTE_", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}
