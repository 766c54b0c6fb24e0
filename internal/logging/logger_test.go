package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jsonConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Level = TraceLevel
	cfg.Sampling.Enabled = false
	return cfg
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.NotNil(t, logger.zap)
	assert.Equal(t, cfg, logger.config)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{
		zap:    zap.New(core),
		config: NewDefaultConfig(),
	}

	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{"trace", func() { logger.Trace(ctx, "trace message") }, TraceLevel, "trace message"},
		{"debug", func() { logger.Debug(ctx, "debug message") }, zapcore.DebugLevel, "debug message"},
		{"info", func() { logger.Info(ctx, "info message") }, zapcore.InfoLevel, "info message"},
		{"warn", func() { logger.Warn(ctx, "warn message") }, zapcore.WarnLevel, "warn message"},
		{"error", func() { logger.Error(ctx, "error message") }, zapcore.ErrorLevel, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, tt.message, logs[0].Message)
		})
	}
}

func TestLogger_WritesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerTo(jsonConfig(), &buf)
	require.NoError(t, err)

	ctx := WithOperation(context.Background(), "create")
	ctx = WithProjectID(ctx, "42")
	logger.Info(ctx, "project created")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "project created", lines[0]["msg"])
	assert.Equal(t, "create", lines[0]["operation"])
	assert.Equal(t, "42", lines[0]["project.id"])
	assert.Equal(t, "projectctl", lines[0]["service"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := jsonConfig()
	cfg.Level = zapcore.WarnLevel
	logger, err := NewLoggerTo(cfg, &buf)
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.False(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerTo(jsonConfig(), &buf)
	require.NoError(t, err)

	logger.Info(context.Background(), "request",
		zap.String("token", "abc123"),
		zap.String("header", "Bearer xyz"),
		zap.String("name", "Garden"),
	)

	out := buf.String()
	assert.NotContains(t, out, "abc123")
	assert.NotContains(t, out, "xyz")
	assert.Contains(t, out, "Garden")
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()

	child := tl.With(zap.String("component", "store")).Named("store")
	child.Info(context.Background(), "loaded")

	logs := tl.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "store", logs[0].LoggerName)
	assert.Equal(t, "store", logs[0].ContextMap()["component"])
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error(context.Background(), "dropped")
	assert.False(t, logger.Enabled(zapcore.ErrorLevel))
	assert.NotNil(t, logger.Underlying())
}
