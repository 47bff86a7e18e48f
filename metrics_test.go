//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.opened(outcomeOK)
	m.closed()
	m.frameDecoded(time.Millisecond)
	m.transient(stageSend)
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.opened(outcomeOK)
	m.opened(outcomeOK)
	m.opened(outcomeNoVideo)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OpenSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsOpened.WithLabelValues(outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsOpened.WithLabelValues(outcomeNoVideo)))

	m.closed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenSessions))

	m.frameDecoded(2 * time.Millisecond)
	m.frameDecoded(3 * time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDecoded))

	m.transient(stageGeometry)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransientErrors.WithLabelValues(stageGeometry)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TransientErrors.WithLabelValues(stageScale)))

	// Every stage is exported before it first fires.
	assert.Equal(t, 5, testutil.CollectAndCount(m.TransientErrors))

	n, err := testutil.GatherAndCount(reg, "ffframes_convert_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetricsRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, outcomeOK},
		{wrap(ErrOpen, "x", nil), outcomeOpen},
		{wrap(ErrStreamInfo, "x", nil), outcomeStreamInfo},
		{ErrNoVideoStream, outcomeNoVideo},
		{wrap(ErrUnsupportedCodec, "x", nil), outcomeUnsupported},
		{wrap(ErrCodecOpen, "x", nil), outcomeCodecOpen},
		{wrap(ErrAllocation, "x", nil), outcomeAllocation},
		{ErrNotLoaded, outcomeNotLoaded},
		{ErrInvalidSize, outcomeInvalidInput},
		{errors.New("other"), outcomeInvalidInput},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, outcomeFor(tt.err), "%v", tt.err)
	}
}
