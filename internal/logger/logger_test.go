package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for level, want := range cases {
		log, err := NewLogger(level, "json", "mosca-hub")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(want), level)
		if want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(want-1), level)
		}
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	log, err := NewLogger("debug", "console", "")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
