package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("returns default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
		assert.Equal(t, GetDefault(), logger)
	})

	t.Run("returns default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
		assert.Equal(t, GetDefault(), logger)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected charmlog.Level
	}{
		{DebugLevel, charmlog.DebugLevel},
		{InfoLevel, charmlog.InfoLevel},
		{WarnLevel, charmlog.WarnLevel},
		{ErrorLevel, charmlog.ErrorLevel},
		{LogLevel("unknown"), charmlog.InfoLevel},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.level.ToCharmlogLevel(), "level %s", tc.level)
	}
	assert.Greater(t, DisabledLevel.ToCharmlogLevel(), charmlog.FatalLevel)
}

func TestNewLogger(t *testing.T) {
	t.Run("writes text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf})

		logger.Info("Generated file", "path", "book_marco.go")

		assert.Contains(t, buf.String(), "Generated file")
		assert.Contains(t, buf.String(), "book_marco.go")
	})

	t.Run("writes JSON output when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		logger.Info("test message")

		output := buf.String()
		assert.Contains(t, output, "test message")
		assert.True(t, strings.Contains(output, "{") && strings.Contains(output, "}"))
	})

	t.Run("carries fields added with With", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf}).With("type", "Book")

		logger.Info("rendered")

		assert.Contains(t, buf.String(), "Book")
	})
}

func TestLoggerLevels(t *testing.T) {
	t.Run("respects log level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: WarnLevel, Output: &buf})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("disables all logging when DisabledLevel is used", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: DisabledLevel, Output: &buf})

		logger.Error("error message")

		assert.Empty(t, buf.String())
	})
}

func TestGetLoggerConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("log-json", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--log-level=debug", "--log-json"}))

	level, json, err := GetLoggerConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
	assert.True(t, json)

	_, _, err = GetLoggerConfig(&cobra.Command{Use: "bare"})
	require.Error(t, err)
}
