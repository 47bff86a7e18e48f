//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors sessions report to. A nil
// *Metrics records nothing.
type Metrics struct {
	FramesDecoded   prometheus.Counter
	TransientErrors *prometheus.CounterVec
	OpenSessions    prometheus.Gauge
	SessionsOpened  *prometheus.CounterVec
	ConvertSeconds  prometheus.Histogram
}

// Outcome labels for SessionsOpened.
const (
	outcomeOK           = "ok"
	outcomeOpen         = "open"
	outcomeStreamInfo   = "stream_info"
	outcomeNoVideo      = "no_video_stream"
	outcomeUnsupported  = "unsupported_codec"
	outcomeCodecOpen    = "codec_open"
	outcomeAllocation   = "allocation"
	outcomeNotLoaded    = "not_loaded"
	outcomeInvalidInput = "invalid"
)

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		FramesDecoded: f.NewCounter(prometheus.CounterOpts{
			Name: "ffframes_frames_decoded_total",
			Help: "Total number of frames decoded and converted to RGB24",
		}),
		TransientErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ffframes_transient_errors_total",
			Help: "Decode failures that were skipped, by pipeline stage",
		}, []string{"stage"}),
		OpenSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "ffframes_open_sessions",
			Help: "Number of sessions currently open",
		}),
		SessionsOpened: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ffframes_sessions_opened_total",
			Help: "Session open attempts, by outcome",
		}, []string{"outcome"}),
		ConvertSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ffframes_convert_seconds",
			Help:    "Time spent converting one decoded frame to RGB24",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	for _, stage := range []string{stageSend, stageReceive, stageRead, stageGeometry, stageScale} {
		m.TransientErrors.WithLabelValues(stage).Add(0)
	}
	return m
}

func (m *Metrics) opened(outcome string) {
	if m == nil {
		return
	}
	m.SessionsOpened.WithLabelValues(outcome).Inc()
	if outcome == outcomeOK {
		m.OpenSessions.Inc()
	}
}

func (m *Metrics) closed() {
	if m == nil {
		return
	}
	m.OpenSessions.Dec()
}

func (m *Metrics) frameDecoded(convert time.Duration) {
	if m == nil {
		return
	}
	m.FramesDecoded.Inc()
	m.ConvertSeconds.Observe(convert.Seconds())
}

func (m *Metrics) transient(stage string) {
	if m == nil {
		return
	}
	m.TransientErrors.WithLabelValues(stage).Inc()
}
