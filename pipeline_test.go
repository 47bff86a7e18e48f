//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFailedWarnsOnInputError(t *testing.T) {
	var buf bytes.Buffer
	m := NewMetrics(prometheus.NewRegistry())
	s := &Session{log: zerolog.New(&buf), metrics: m, decoded: 7}

	s.readFailed(&avutil.Error{Code: -5, Message: "Input/output error", Op: "av_read_frame"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "input ended early", entry["message"])
	assert.EqualValues(t, 7, entry["frames"])
	assert.Contains(t, entry["error"], "Input/output error")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransientErrors.WithLabelValues(stageRead)))
}

func TestReadFailedQuietAtEndOfFile(t *testing.T) {
	var buf bytes.Buffer
	m := NewMetrics(prometheus.NewRegistry())
	s := &Session{log: zerolog.New(&buf), metrics: m}

	s.readFailed(&avutil.Error{Code: avutil.AVERROR_EOF, Message: "End of file", Op: "av_read_frame"})

	assert.Empty(t, buf.String())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TransientErrors.WithLabelValues(stageRead)))
}

func TestNewConverterRejectsUnsupportedFormat(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}

	_, err := newConverter(64, 48, avutil.PixelFormatNone, 32, 24, ScaleBicubic)
	assert.ErrorIs(t, err, ErrAllocation)

	c, err := newConverter(64, 48, avutil.PixelFormatYUV420P, 32, 24, ScaleBicubic)
	require.NoError(t, err)
	defer c.free()
	assert.True(t, c.matches(64, 48, avutil.PixelFormatYUV420P))
	assert.False(t, c.matches(64, 48, avutil.PixelFormatRGB24))
}
