//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogQuiet, "quiet"},
		{LogPanic, "panic"},
		{LogFatal, "fatal"},
		{LogError, "error"},
		{LogWarning, "warning"},
		{LogInfo, "info"},
		{LogVerbose, "verbose"},
		{LogDebug, "debug"},
		{LogTrace, "trace"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
		parsed, err := ParseLogLevel(tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.level, parsed)
	}
}

func TestParseLogLevel(t *testing.T) {
	l, err := ParseLogLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LogWarning, l)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.ErrorLevel, LogError.zerologLevel())
	assert.Equal(t, zerolog.WarnLevel, LogWarning.zerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LogInfo.zerologLevel())
	assert.Equal(t, zerolog.DebugLevel, LogVerbose.zerologLevel())
	assert.Equal(t, zerolog.DebugLevel, LogDebug.zerologLevel())
	assert.Equal(t, zerolog.TraceLevel, LogTrace.zerologLevel())
}

func TestSetLogLevel(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}
	prev, err := GetLogLevel()
	require.NoError(t, err)
	defer SetLogLevel(prev)

	require.NoError(t, SetLogLevel(LogError))
	got, err := GetLogLevel()
	require.NoError(t, err)
	assert.Equal(t, LogError, got)

	require.NoError(t, SetLogLevel(LogInfo))
	got, _ = GetLogLevel()
	assert.Equal(t, LogInfo, got)
}

func TestForwardLogs(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}
	err := ForwardLogs(zerolog.Nop())
	if _, ok := Libraries()["ffshim"]; ok {
		assert.NoError(t, err)
		return
	}
	assert.Error(t, err)
}

func TestCString(t *testing.T) {
	short := []byte("Invalid data found\x00world")
	assert.Equal(t, "Invalid data found", cString(&short[0]))

	exact := append(bytes.Repeat([]byte("a"), maxLogLine), 0)
	assert.Len(t, cString(&exact[0]), maxLogLine)

	long := append(bytes.Repeat([]byte("b"), maxLogLine+100), 0)
	got := cString(&long[0])
	assert.True(t, strings.HasSuffix(got, " [truncated]"))
	assert.Equal(t, strings.Repeat("b", maxLogLine), strings.TrimSuffix(got, " [truncated]"))
}
